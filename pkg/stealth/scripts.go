// Package stealth holds the JavaScript init scripts injected into local
// browser contexts to perturb fingerprint surfaces.
package stealth

import "github.com/abrasio/abrasio-go/pkg/config"

// CanvasNoiseScript adds subtle random noise to canvas pixel data reads,
// making the canvas fingerprint unique per session without visibly
// affecting rendering.
const CanvasNoiseScript = `
(() => {
    const originalGetImageData = CanvasRenderingContext2D.prototype.getImageData;
    CanvasRenderingContext2D.prototype.getImageData = function(...args) {
        const imageData = originalGetImageData.apply(this, args);
        const data = imageData.data;
        for (let i = 0; i < data.length; i += 4) {
            // Add +-1 noise to RGB channels (imperceptible)
            data[i]     = data[i]     + (Math.random() < 0.5 ? -1 : 1) & 0xff;
            data[i + 1] = data[i + 1] + (Math.random() < 0.5 ? -1 : 1) & 0xff;
            data[i + 2] = data[i + 2] + (Math.random() < 0.5 ? -1 : 1) & 0xff;
        }
        return imageData;
    };
    const originalToDataURL = HTMLCanvasElement.prototype.toDataURL;
    HTMLCanvasElement.prototype.toDataURL = function(...args) {
        const ctx = this.getContext('2d');
        if (ctx) {
            const imageData = ctx.getImageData(0, 0, this.width, this.height);
            ctx.putImageData(imageData, 0, 0);
        }
        return originalToDataURL.apply(this, args);
    };
    const originalToBlob = HTMLCanvasElement.prototype.toBlob;
    HTMLCanvasElement.prototype.toBlob = function(callback, ...args) {
        const ctx = this.getContext('2d');
        if (ctx) {
            const imageData = ctx.getImageData(0, 0, this.width, this.height);
            ctx.putImageData(imageData, 0, 0);
        }
        return originalToBlob.call(this, callback, ...args);
    };
})();
`

// AudioNoiseScript adds subtle noise to AudioContext fingerprint reads.
const AudioNoiseScript = `
(() => {
    const originalGetFloatFrequencyData = AnalyserNode.prototype.getFloatFrequencyData;
    AnalyserNode.prototype.getFloatFrequencyData = function(array) {
        originalGetFloatFrequencyData.call(this, array);
        for (let i = 0; i < array.length; i++) {
            array[i] += (Math.random() - 0.5) * 0.001;
        }
    };
    const originalGetChannelData = AudioBuffer.prototype.getChannelData;
    AudioBuffer.prototype.getChannelData = function(channel) {
        const data = originalGetChannelData.call(this, channel);
        for (let i = 0; i < data.length; i++) {
            data[i] += (Math.random() - 0.5) * 0.0001;
        }
        return data;
    };
})();
`

// InitScripts returns the scripts enabled by the fingerprint config.
func InitScripts(fp config.FingerprintConfig) []string {
	var scripts []string
	if fp.CanvasNoise {
		scripts = append(scripts, CanvasNoiseScript)
	}
	if fp.AudioNoise {
		scripts = append(scripts, AudioNoiseScript)
	}
	return scripts
}
