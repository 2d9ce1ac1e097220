// Package audio plays the beep tone while the sound timer runs.
package audio

import (
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
)

// Beeper replays a decoded mp3 tone. A Beeper without a tone is silent.
type Beeper struct {
	logger *log.Logger
	tone   *beep.Buffer
}

// NewBeeper decodes the mp3 at path and initialises the speaker for it. An
// empty path gives a silent beeper. A file that can't be read or decoded
// is logged and also gives a silent beeper, sound is not worth refusing to
// run a ROM over.
func NewBeeper(logger *log.Logger, path string) *Beeper {
	b := &Beeper{logger: logger}
	if path == "" {
		return b
	}

	tone, err := loadTone(path)
	if err != nil {
		logger.Warn("Sound disabled", log.String("file", path), log.Err(err))
		return b
	}

	if err := speaker.Init(tone.Format().SampleRate, tone.Format().SampleRate.N(time.Second/10)); err != nil {
		logger.Warn("Sound disabled", log.String("file", path), log.Err(err))
		return b
	}

	b.tone = tone
	return b
}

func loadTone(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening tone")
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "decoding tone")
	}
	defer streamer.Close()

	tone := beep.NewBuffer(format)
	tone.Append(streamer)
	return tone, nil
}

// Beep starts playing the tone once.
func (b *Beeper) Beep() {
	if b.tone == nil {
		b.logger.Debug("Beep")
		return
	}
	speaker.Play(b.tone.Streamer(0, b.tone.Len()))
}

// Silent reports whether the beeper has no tone to play.
func (b *Beeper) Silent() bool {
	return b.tone == nil
}
