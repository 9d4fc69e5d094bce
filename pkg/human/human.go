// Package human simulates human input over a Playwright page: Bezier
// curve mouse trajectories with distance-aware timing, variable-speed
// typing with occasional corrected typos, and momentum scrolling.
package human

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
	"unicode"

	"github.com/playwright-community/playwright-go"
)

// MoveOptions tunes cursor trajectories. The zero value uses defaults.
type MoveOptions struct {
	// MinTime and MaxTime bound the movement duration in seconds.
	MinTime float64
	MaxTime float64

	// StepsPerSecond controls animation smoothness.
	StepsPerSecond int

	// Jitter scales the micro-adjustment noise along the path.
	Jitter float64
}

func (o *MoveOptions) defaults() {
	if o.MinTime <= 0 {
		o.MinTime = 0.1
	}
	if o.MaxTime <= 0 {
		o.MaxTime = 1.5
	}
	if o.StepsPerSecond <= 0 {
		o.StepsPerSecond = 60
	}
	if o.Jitter <= 0 {
		o.Jitter = 0.5
	}
}

// MoveTo moves the mouse to (x, y) along a curved trajectory with
// ease-in-out timing. The starting point is approximated from the
// viewport center since Playwright does not expose cursor position.
func MoveTo(ctx context.Context, page playwright.Page, x, y float64, opts MoveOptions) error {
	opts.defaults()

	start := point{x: 500, y: 300}
	if viewport := page.ViewportSize(); viewport != nil {
		start = point{x: float64(viewport.Width) / 2, y: float64(viewport.Height) / 2}
	}
	end := point{x: x, y: y}

	distance := math.Hypot(end.x-start.x, end.y-start.y)
	duration := movementTime(distance, opts.MinTime, opts.MaxTime)
	curve := controlPoints(start, end, 2)

	steps := int(duration * float64(opts.StepsPerSecond))
	if steps < 10 {
		steps = 10
	}
	stepPause := time.Duration(duration / float64(steps) * float64(time.Second))

	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := bezierPoint(easeInOutCubic(t), curve)

		// Noise peaks mid-flight and vanishes at the endpoints.
		p = jitter(p, opts.Jitter*math.Sin(t*math.Pi))

		if err := page.Mouse().Move(p.x, p.y); err != nil {
			return err
		}
		if err := sleep(ctx, stepPause); err != nil {
			return err
		}
	}
	return nil
}

// ClickOptions selects the click target and behavior. Provide either
// Selector or explicit X/Y coordinates.
type ClickOptions struct {
	Selector string
	X, Y     float64

	// OffsetRange is the max random pixel offset from the chosen point.
	// Zero means the default of 5.
	OffsetRange int

	// SkipMove clicks directly without a natural cursor approach.
	SkipMove bool

	DoubleClick bool
}

// Click clicks like a person: a curved approach, a spot inside the
// element rather than its exact center, and a reaction-time pause
// before the button goes down.
func Click(ctx context.Context, page playwright.Page, opts ClickOptions) error {
	x, y := opts.X, opts.Y
	if opts.Selector != "" {
		element, err := page.QuerySelector(opts.Selector)
		if err != nil || element == nil {
			return fmt.Errorf("element not found: %s", opts.Selector)
		}
		box, err := element.BoundingBox()
		if err != nil || box == nil {
			// No geometry to aim at, let Playwright handle it.
			if opts.DoubleClick {
				return element.Dblclick()
			}
			return element.Click()
		}
		x = box.X + box.Width*(0.3+rand.Float64()*0.4)
		y = box.Y + box.Height*(0.3+rand.Float64()*0.4)
	} else if x == 0 && y == 0 {
		return fmt.Errorf("either a selector or coordinates must be provided")
	}

	offset := opts.OffsetRange
	if offset == 0 {
		offset = 5
	}
	x += float64(rand.Intn(2*offset+1) - offset)
	y += float64(rand.Intn(2*offset+1) - offset)

	if !opts.SkipMove {
		if err := MoveTo(ctx, page, x, y, MoveOptions{}); err != nil {
			return err
		}
	}
	if err := sleep(ctx, randomDuration(50*time.Millisecond, 150*time.Millisecond)); err != nil {
		return err
	}

	if opts.DoubleClick {
		return page.Mouse().Dblclick(x, y)
	}
	return page.Mouse().Click(x, y)
}

// Typing speed varies by character frequency.
const (
	commonChars   = "etaoinshrdlu "
	uncommonChars = "zxqjkvbp"
)

// TypeOptions tunes typing behavior. The zero value uses defaults.
type TypeOptions struct {
	// Selector, when set, is clicked to focus before typing.
	Selector string

	// MinDelay and MaxDelay bound the per-keystroke delay.
	MinDelay time.Duration
	MaxDelay time.Duration

	// MistakeProbability is the per-letter chance of a corrected typo.
	MistakeProbability float64

	// ThinkProbability is the per-keystroke chance of a longer pause.
	ThinkProbability float64
}

func (o *TypeOptions) defaults() {
	if o.MinDelay <= 0 {
		o.MinDelay = 30 * time.Millisecond
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = 150 * time.Millisecond
	}
	if o.MistakeProbability == 0 {
		o.MistakeProbability = 0.02
	}
	if o.ThinkProbability == 0 {
		o.ThinkProbability = 0.05
	}
}

// Type enters text with human cadence: common letters come faster,
// short bursts speed up, thinking pauses interrupt, and the occasional
// typo gets backspaced and corrected.
func Type(ctx context.Context, page playwright.Page, text string, opts TypeOptions) error {
	opts.defaults()

	if opts.Selector != "" {
		if err := Click(ctx, page, ClickOptions{Selector: opts.Selector}); err != nil {
			return err
		}
		if err := sleep(ctx, randomDuration(100*time.Millisecond, 300*time.Millisecond)); err != nil {
			return err
		}
	}

	burstLeft := 0
	for _, char := range text {
		delay := keystrokeDelay(char, opts.MinDelay, opts.MaxDelay)

		if burstLeft > 0 {
			delay /= 2
			burstLeft--
		} else if rand.Float64() < 0.1 {
			burstLeft = 3 + rand.Intn(6)
		}

		if rand.Float64() < opts.ThinkProbability {
			if err := sleep(ctx, randomDuration(300*time.Millisecond, time.Second)); err != nil {
				return err
			}
		}

		if rand.Float64() < opts.MistakeProbability && unicode.IsLetter(char) {
			if err := typeChar(page, adjacentKey(char), delay); err != nil {
				return err
			}
			if err := sleep(ctx, randomDuration(100*time.Millisecond, 300*time.Millisecond)); err != nil {
				return err
			}
			if err := page.Keyboard().Press("Backspace"); err != nil {
				return err
			}
			if err := sleep(ctx, randomDuration(50*time.Millisecond, 150*time.Millisecond)); err != nil {
				return err
			}
		}
		if err := typeChar(page, char, delay); err != nil {
			return err
		}
	}
	return nil
}

func keystrokeDelay(char rune, min, max time.Duration) time.Duration {
	lower := unicode.ToLower(char)
	switch {
	case containsRune(commonChars, lower):
		return randomDuration(min, max*6/10)
	case containsRune(uncommonChars, lower):
		return randomDuration(min*3/2, max)
	default:
		return randomDuration(min, max)
	}
}

func typeChar(page playwright.Page, char rune, delay time.Duration) error {
	return page.Keyboard().Type(string(char), playwright.KeyboardTypeOptions{
		Delay: playwright.Float(float64(delay.Milliseconds())),
	})
}

// ScrollOptions tunes scrolling. The zero value scrolls down a random
// 200-600px with smooth momentum.
type ScrollOptions struct {
	// Up reverses the scroll direction.
	Up bool

	// Amount is the pixel distance; zero picks a random 200-600.
	Amount int

	// Instant disables the momentum animation.
	Instant bool

	// Duration is the animation length; zero means 500ms.
	Duration time.Duration
}

// Scroll wheels the page with an ease-out momentum curve, fast at first
// and trailing off.
func Scroll(ctx context.Context, page playwright.Page, opts ScrollOptions) error {
	amount := float64(opts.Amount)
	if amount == 0 {
		amount = float64(200 + rand.Intn(401))
	}
	if opts.Up {
		amount = -amount
	}

	if opts.Instant {
		if err := page.Mouse().Wheel(0, amount); err != nil {
			return err
		}
		return sleep(ctx, randomDuration(100*time.Millisecond, 300*time.Millisecond))
	}

	duration := opts.Duration
	if duration <= 0 {
		duration = 500 * time.Millisecond
	}
	steps := int(duration.Seconds() * 30)
	if steps < 5 {
		steps = 5
	}
	stepAmount := amount / float64(steps)

	for i := 0; i < steps; i++ {
		t := float64(i) / float64(steps)
		eased := 1 - math.Pow(1-t, 3)
		if err := page.Mouse().Wheel(0, stepAmount*(1-eased*0.5)); err != nil {
			return err
		}
		if err := sleep(ctx, duration/time.Duration(steps)); err != nil {
			return err
		}
	}
	return sleep(ctx, randomDuration(100*time.Millisecond, 300*time.Millisecond))
}

// Delay pauses for a uniformly random duration in [min, max].
func Delay(ctx context.Context, min, max time.Duration) error {
	return sleep(ctx, randomDuration(min, max))
}

// Wait pauses with a distribution skewed toward shorter waits, the way
// real pauses between actions cluster short with an occasional long one.
func Wait(ctx context.Context, min, max time.Duration) error {
	d := min + time.Duration(betaSample()*float64(max-min))
	return sleep(ctx, d)
}

// SimulateReading idles on a page like a reader would, interleaving
// short downward scrolls with pauses, for a random duration between min
// and max.
func SimulateReading(ctx context.Context, page playwright.Page, min, max time.Duration) error {
	total := randomDuration(min, max)
	var elapsed time.Duration

	for elapsed < total {
		if rand.Float64() < 0.3 {
			if err := Scroll(ctx, page, ScrollOptions{Amount: 100 + rand.Intn(201)}); err != nil {
				return err
			}
		}
		pause := randomDuration(500*time.Millisecond, 2*time.Second)
		if err := sleep(ctx, pause); err != nil {
			return err
		}
		elapsed += pause
	}
	return nil
}

func randomDuration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)+1))
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
