// Package audio plays the short sound cue a preset can carry each time its
// emitter connects.
package audio

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/iburimskiy/particle-editor/internal/config"
)

var ErrUnsupported = errors.New("unsupported audio file type")

// Extensions lists the file patterns LoadCue accepts.
var Extensions = []string{"*.wav", "*.mp3", "*.flac"}

// Cue is a decoded sound held in memory so it can be replayed any number of
// times without touching the file again.
type Cue struct {
	Path   string
	buffer *beep.Buffer
}

// LoadCue decodes a wav, mp3 or flac file chosen by extension.
func LoadCue(path string) (*Cue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sound %q: %w", path, err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		_ = f.Close()
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode sound %q: %w", path, err)
	}
	// closing the streamer closes f as well
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("decode sound %q: %w", path, err)
	}
	return &Cue{Path: path, buffer: buf}, nil
}

func (c *Cue) Format() beep.Format { return c.buffer.Format() }

func (c *Cue) Duration() time.Duration {
	return c.buffer.Format().SampleRate.D(c.buffer.Len())
}

// Player owns the speaker. The speaker is initialised lazily at the sample
// rate of the first cue played; later cues are resampled to it.
type Player struct {
	rate     beep.SampleRate
	initDone bool
	tap      *levelTap
	ctrl     *beep.Ctrl
	level    float64
}

func NewPlayer() *Player {
	return &Player{}
}

// Play stops whatever is playing and starts c from its beginning.
func (p *Player) Play(c *Cue) error {
	if c == nil {
		return nil
	}
	format := c.Format()
	if !p.initDone {
		bufferSize := format.SampleRate.N(time.Second / 20)
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			return fmt.Errorf("init speaker: %w", err)
		}
		p.rate = format.SampleRate
		p.initDone = true
	} else {
		speaker.Clear()
	}

	var s beep.Streamer = c.buffer.Streamer(0, c.buffer.Len())
	if format.SampleRate != p.rate {
		s = beep.Resample(4, format.SampleRate, p.rate, s)
	}
	t := newLevelTap(s, config.VisualRingSize)
	ctrl := &beep.Ctrl{Streamer: t, Paused: false}
	p.tap = t
	p.ctrl = ctrl
	speaker.Play(ctrl)
	log.Printf("[Audio] playing %s (%v)", filepath.Base(c.Path), c.Duration())
	return nil
}

// Stop silences the speaker if it was ever started.
func (p *Player) Stop() {
	if !p.initDone {
		return
	}
	speaker.Clear()
	p.tap = nil
	p.ctrl = nil
	p.level = 0
}

// SetPaused holds or resumes the cue that is playing, if any.
func (p *Player) SetPaused(paused bool) {
	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = paused
	speaker.Unlock()
}

// Level returns a smoothed loudness in [0, 1] of what was played most
// recently. It is meant to be polled once per frame.
func (p *Player) Level() float64 {
	var mag float64
	if p.tap != nil {
		mag = math.Pow(p.tap.rms(config.LevelWindow), 0.3)
	}
	p.level = config.SmoothingFactor*p.level + (1-config.SmoothingFactor)*mag
	return math.Min(1, p.level)
}
