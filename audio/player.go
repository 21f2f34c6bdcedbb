package audio

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/starfield/config"
	"github.com/lixenwraith/starfield/parameter"
	"github.com/lixenwraith/starfield/starfield"
	"github.com/lixenwraith/starfield/vmath"
)

// ErrUnavailable wraps audio device initialization failures
var ErrUnavailable = errors.New("audio unavailable")

// Output is the sound device, speaker by default
type Output interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s ...beep.Streamer)
	Lock()
	Unlock()
}

type speakerOutput struct{}

func (speakerOutput) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}
func (speakerOutput) Play(s ...beep.Streamer) { speaker.Play(s...) }
func (speakerOutput) Lock()                   { speaker.Lock() }
func (speakerOutput) Unlock()                 { speaker.Unlock() }

// Player owns one mixer on the output and adds a chime per streak
// Safe for concurrent use
type Player struct {
	mu          sync.Mutex
	out         Output
	mixer       *beep.Mixer
	rate        beep.SampleRate
	volume      float64
	enabled     bool
	initialized bool
	failed      bool
	maxVoices   int
	logger      *zap.Logger

	played  int
	dropped int
}

type PlayerOption func(*Player)

// WithOutput replaces the speaker, tests pass a recorder
func WithOutput(out Output) PlayerOption {
	return func(p *Player) { p.out = out }
}

func WithPlayerLogger(l *zap.Logger) PlayerOption {
	return func(p *Player) { p.logger = l.Named("audio") }
}

// NewPlayer creates a player that does nothing until Init succeeds
func NewPlayer(cfg config.AudioConfig, opts ...PlayerOption) *Player {
	p := &Player{
		out:       speakerOutput{},
		mixer:     &beep.Mixer{},
		rate:      beep.SampleRate(parameter.AudioSampleRate),
		volume:    vmath.Clamp01(cfg.Volume),
		enabled:   cfg.Enabled,
		maxVoices: parameter.AudioMaxVoices,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Init opens the output once; a failure disables the player for good and is returned wrapped in ErrUnavailable
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled || p.initialized || p.failed {
		return nil
	}
	if err := p.out.Init(p.rate, p.rate.N(parameter.AudioBufferDuration)); err != nil {
		p.failed = true
		p.logger.Warn("audio disabled", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	p.out.Play(p.mixer)
	p.initialized = true
	p.logger.Debug("audio ready", zap.Int("rate", int(p.rate)))
	return nil
}

// Ready reports whether chimes will be heard
func (p *Player) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready()
}

func (p *Player) ready() bool {
	return p.enabled && p.initialized
}

// PlayChime queues a chime, returns false when disabled or the voice cap is reached
func (p *Player) PlayChime() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ready() {
		return false
	}

	p.out.Lock()
	defer p.out.Unlock()
	if p.mixer.Len() >= p.maxVoices {
		p.dropped++
		return false
	}
	p.mixer.Add(Chime(p.rate, p.volume))
	p.played++
	return true
}

// OnStreak adapts PlayChime to the animator's streak listener
func (p *Player) OnStreak(starfield.StreakEffect) {
	p.PlayChime()
}

// SetVolume applies to chimes started afterwards
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = vmath.Clamp01(v)
}

// SetEnabled mutes or unmutes; enabling a never-initialized player still needs Init
func (p *Player) SetEnabled(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = on
	if !on && p.initialized {
		p.out.Lock()
		p.mixer.Clear()
		p.out.Unlock()
	}
}

// Counts returns chimes played and dropped at the voice cap
func (p *Player) Counts() (played, dropped int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played, p.dropped
}

// Close silences pending chimes; beep has no speaker teardown so the device stays open
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	p.out.Lock()
	p.mixer.Clear()
	p.out.Unlock()
	p.enabled = false
}
