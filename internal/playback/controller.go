// Package playback runs a long-lived decode-to-device worker driven by a
// command channel, generalizing original_source/audio/player/decode_loop.rs
// onto the teacher's decoder/device/ringbuffer stack.
package playback

import (
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jvegaf/decklib/internal/device"
	"github.com/jvegaf/decklib/pkg/decoders"
	"github.com/jvegaf/decklib/pkg/ringbuffer"
	"github.com/jvegaf/decklib/pkg/types"

	"github.com/drgolem/go-portaudio/portaudio"
)

// timestampInterval throttles EventTimestamp emission, matching
// original_source's TIMESTAMP_INTERVAL_MS constant.
const timestampInterval = 200 * time.Millisecond

// ringBufferBytes sizes the SPSC byte ring buffer sitting between the
// decode producer and the device consumer, matching pkg/audioplayer.Player's
// default buffer size.
const ringBufferBytes = 256 * 1024

// produceChunkFrames is how many frames the producer decodes per
// DecodeSamples call before writing them to the ring buffer.
const produceChunkFrames = 4096

// outputFramesPerBuffer is the PortAudio buffer size in frames, and the
// chunk size the consumer reads from the ring buffer per stream.Write.
const outputFramesPerBuffer = 512

// retryInterval is how long the producer/consumer back off before retrying
// a full ring buffer write or an empty read.
const retryInterval = 5 * time.Millisecond

// Controller owns a single decode-to-device worker goroutine. One Controller
// plays at most one track at a time; callers switch tracks with StreamFile.
type Controller struct {
	logger *slog.Logger

	commands chan Command
	events   chan Event
	stopCh   chan struct{}
	wg       sync.WaitGroup

	position atomic.Uint64 // float64 bits
	duration atomic.Uint64 // float64 bits
	playing  atomic.Bool
	gate     device.PauseGate
}

// NewController starts the decode worker and returns a handle to it. Close
// must be called to release the worker goroutine.
func NewController(logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		logger:   logger,
		commands: make(chan Command, 8),
		events:   make(chan Event, 32),
		stopCh:   make(chan struct{}),
	}
	c.wg.Add(1)
	go c.run()
	return c
}

// Events returns the channel of playback events. Callers should drain it
// continuously: while the buffer (32 events) is full, every new event is
// dropped with a logged warning, whatever its kind, so EventState,
// EventEndOfTrack and EventError can be lost as well as EventTimestamp.
func (c *Controller) Events() <-chan Event {
	return c.events
}

// Close stops the worker and releases the current device stream, if any.
func (c *Controller) Close() {
	select {
	case <-c.stopCh:
	default:
		close(c.stopCh)
	}
	c.wg.Wait()
}

func (c *Controller) send(cmd Command) {
	select {
	case c.commands <- cmd:
	case <-c.stopCh:
	}
}

// StreamFile opens path and begins decoding it, replacing any track
// currently playing. seek and volume are optional; pass hasSeek=false and
// hasVolume=false to start at position 0 with the previous volume level.
func (c *Controller) StreamFile(path string, seek float64, hasSeek bool, volume float64, hasVolume bool) {
	c.send(Command{Kind: CmdStreamFile, Path: path, SeekTo: seek, HasSeekTo: hasSeek, Volume: volume, HasVolume: hasVolume})
}

func (c *Controller) Seek(position float64)          { c.send(Command{Kind: CmdSeek, Position: position}) }
func (c *Controller) Pause()                         { c.send(Command{Kind: CmdPause}) }
func (c *Controller) Resume()                        { c.send(Command{Kind: CmdResume}) }
func (c *Controller) Stop()                          { c.send(Command{Kind: CmdStop}) }
func (c *Controller) SetVolume(volume float64)       { c.send(Command{Kind: CmdChangeVolume, Volume: volume}) }
func (c *Controller) ChangeDevice(deviceName string) { c.send(Command{Kind: CmdChangeDevice, DeviceName: deviceName}) }

// Status is a point-in-time snapshot of playback position.
type Status struct {
	Position float64
	Duration float64
	Playing  bool
}

func (c *Controller) Status() Status {
	return Status{
		Position: float64FromBits(c.position.Load()),
		Duration: float64FromBits(c.duration.Load()),
		Playing:  c.playing.Load(),
	}
}

func (c *Controller) emit(e Event) {
	select {
	case c.events <- e:
	default:
		c.logger.Warn("playback event dropped, consumer too slow", "kind", e.Kind)
	}
}

func (c *Controller) run() {
	defer c.wg.Done()

	w := &worker{controller: c}
	w.volumeBits.Store(math.Float64bits(1.0))
	defer func() {
		if sess := w.teardownSession(); sess != nil {
			sess.decoder.Close()
		}
		w.closeOutput()
	}()

	for {
		select {
		case <-c.stopCh:
			return
		case cmd := <-c.commands:
			w.handle(cmd)
		}
	}
}

// trackSession is the mutable decode pipeline for one loaded track: the
// decoder, the ring buffer standing between it and the device, and the
// bookkeeping the consumer needs to report an accurate position. A new
// session is created for every StreamFile and every Seek; the previous one
// is torn down first.
type trackSession struct {
	decoder       types.AudioDecoder
	ringbuf       *ringbuffer.RingBuffer
	bytesPerFrame int
	sampleRate    int

	basePosition   float64 // seconds, position at which this session begins
	samplesWritten atomic.Uint64

	producerDone atomic.Bool
	stop         chan struct{}
	wg           sync.WaitGroup
}

func newTrackSession(decoder types.AudioDecoder, channels, bits, rate int, basePosition float64) *trackSession {
	bytesPerSample := bits / 8
	if bytesPerSample == 0 {
		bytesPerSample = 2
	}
	return &trackSession{
		decoder:       decoder,
		ringbuf:       ringbuffer.New(ringBufferBytes),
		bytesPerFrame: channels * bytesPerSample,
		sampleRate:    rate,
		basePosition:  basePosition,
		stop:          make(chan struct{}),
	}
}

// worker holds the mutable decode/output state manipulated only from the
// Controller.run goroutine (command handling) plus the producer/consumer
// goroutines it spawns per session, matching decode_loop.rs's
// single-threaded ownership of decoder_state/audio_output generalized onto
// a producer/consumer ring buffer pair.
type worker struct {
	controller *Controller

	path string

	// output device state; read by a session's consumer goroutine, written
	// only by the command-handling goroutine via openOutput/closeOutput.
	streamMu    sync.RWMutex
	stream      *portaudio.PaStream
	rate        int
	channels    int
	bits        int
	deviceIndex int

	volumeBits atomic.Uint64

	session atomic.Pointer[trackSession]
}

func (w *worker) getVolume() float64  { return math.Float64frombits(w.volumeBits.Load()) }
func (w *worker) setVolume(v float64) { w.volumeBits.Store(math.Float64bits(v)) }

func (w *worker) handle(cmd Command) {
	switch cmd.Kind {
	case CmdStreamFile:
		w.streamFile(cmd)
	case CmdSeek:
		w.seek(cmd.Position)
	case CmdPause:
		w.controller.gate.Pause()
		w.controller.playing.Store(false)
		w.controller.emit(Event{Kind: EventState, Playing: false})
	case CmdResume:
		w.controller.gate.Resume()
		w.controller.playing.Store(true)
		w.controller.emit(Event{Kind: EventState, Playing: true})
	case CmdStop:
		if sess := w.teardownSession(); sess != nil {
			sess.decoder.Close()
		}
		w.closeOutput()
		w.controller.playing.Store(false)
		w.controller.position.Store(0)
		w.controller.emit(Event{Kind: EventState, Playing: false})
	case CmdChangeVolume:
		w.setVolume(cmd.Volume)
	case CmdChangeDevice:
		w.changeDevice(cmd.DeviceName)
	}
}

// teardownSession stops and releases the current session, if any, waiting
// for its producer/consumer goroutines to exit. The caller is responsible
// for closing the returned session's decoder.
func (w *worker) teardownSession() *trackSession {
	sess := w.session.Swap(nil)
	if sess == nil {
		return nil
	}
	close(sess.stop)
	sess.wg.Wait()
	return sess
}

func (w *worker) streamFile(cmd Command) {
	if sess := w.teardownSession(); sess != nil {
		sess.decoder.Close()
	}

	decoder, err := decoders.NewDecoder(cmd.Path)
	if err != nil {
		w.controller.emit(Event{Kind: EventError, Err: err})
		return
	}

	rate, channels, bits := decoder.GetFormat()

	seekSeconds := 0.0
	if cmd.HasSeekTo {
		seekSeconds = cmd.SeekTo
	}
	if seekSeconds > 0 {
		if err := seekDecoder(decoder, rate, channels, bits, seekSeconds); err != nil {
			decoder.Close()
			w.controller.emit(Event{Kind: EventError, Err: err})
			return
		}
	}

	if err := w.openOutput(rate, channels, bits); err != nil {
		decoder.Close()
		w.controller.emit(Event{Kind: EventError, Err: err})
		return
	}

	w.path = cmd.Path
	if cmd.HasVolume {
		w.setVolume(cmd.Volume)
	}

	sess := newTrackSession(decoder, channels, bits, rate, seekSeconds)
	w.session.Store(sess)

	w.controller.position.Store(float64Bits(seekSeconds))
	w.controller.gate.Resume()
	w.controller.playing.Store(true)
	w.controller.emit(Event{Kind: EventState, Playing: true})

	sess.wg.Add(2)
	go w.produce(sess)
	go w.consume(sess)
}

// seek reopens the decoder at w.path and decodes-and-discards up to the
// target sample position, then starts a fresh session from there. The
// output stream and device selection are left untouched, so the only
// audible effect is the jump itself. The same reopen+discard technique
// internal/waveform.DecoderSource uses for analysis-time seeking applies
// here: none of the format decoders this module wraps expose a native seek.
func (w *worker) seek(position float64) {
	if w.path == "" {
		return
	}

	if sess := w.teardownSession(); sess != nil {
		sess.decoder.Close()
	}

	decoder, err := decoders.NewDecoder(w.path)
	if err != nil {
		w.controller.emit(Event{Kind: EventError, Err: err})
		return
	}

	w.streamMu.RLock()
	rate, channels, bits := w.rate, w.channels, w.bits
	w.streamMu.RUnlock()

	if err := seekDecoder(decoder, rate, channels, bits, position); err != nil {
		decoder.Close()
		w.controller.emit(Event{Kind: EventError, Err: err})
		return
	}

	sess := newTrackSession(decoder, channels, bits, rate, position)
	w.session.Store(sess)
	w.controller.position.Store(float64Bits(position))

	sess.wg.Add(2)
	go w.produce(sess)
	go w.consume(sess)
}

// seekDecoder decodes and discards samples from decoder until it has
// advanced to the sample position corresponding to seconds, or until the
// decoder runs out of samples first (in which case it leaves the decoder
// wherever it stopped, tolerating the short read rather than erroring).
func seekDecoder(decoder types.AudioDecoder, rate, channels, bits int, seconds float64) error {
	target := int(seconds * float64(rate))
	if target <= 0 {
		return nil
	}

	bytesPerSample := bits / 8
	if bytesPerSample == 0 {
		bytesPerSample = 2
	}

	const discardChunk = 4096
	buf := make([]byte, discardChunk*channels*bytesPerSample)

	position := 0
	for position < target {
		toRead := discardChunk
		if remaining := target - position; remaining < toRead {
			toRead = remaining
		}
		n, err := decoder.DecodeSamples(toRead, buf)
		if n > 0 {
			position += n
		}
		if err != nil || n == 0 {
			return nil
		}
	}
	return nil
}

func (w *worker) changeDevice(deviceName string) {
	enum := device.PortAudioEnumerator{}
	dev, err := device.FindByName(enum, deviceName)
	if err != nil {
		w.controller.emit(Event{Kind: EventError, Err: err})
		return
	}

	w.streamMu.RLock()
	rate, channels, bits := w.rate, w.channels, w.bits
	w.streamMu.RUnlock()

	wasPlaying := w.session.Load() != nil && !w.controller.gate.Paused()

	w.deviceIndex = dev.Index
	if rate == 0 {
		cfg, err := device.BestConfig(dev, 0, 0)
		if err != nil {
			w.controller.emit(Event{Kind: EventError, Err: err})
			return
		}
		rate, channels, bits = cfg.SampleRate, cfg.Channels, 16
	}

	if err := w.openOutput(rate, channels, bits); err != nil {
		w.controller.emit(Event{Kind: EventError, Err: err})
		return
	}
	if wasPlaying {
		w.controller.gate.Resume()
	}
}

func (w *worker) openOutput(rate, channels, bits int) error {
	var format portaudio.PaSampleFormat
	switch bits {
	case 16:
		format = portaudio.SampleFmtInt16
	case 24:
		format = portaudio.SampleFmtInt24
	case 32:
		format = portaudio.SampleFmtInt32
	default:
		format = portaudio.SampleFmtInt16
	}

	params := portaudio.PaStreamParameters{
		DeviceIndex:  w.deviceIndex,
		ChannelCount: channels,
		SampleFormat: format,
	}
	stream, err := portaudio.NewStream(params, float64(rate))
	if err != nil {
		return err
	}
	if err := stream.Open(outputFramesPerBuffer); err != nil {
		return err
	}
	if err := stream.StartStream(); err != nil {
		stream.Close()
		return err
	}

	w.streamMu.Lock()
	if w.stream != nil {
		w.stream.StopStream()
		w.stream.Close()
	}
	w.stream = stream
	w.rate = rate
	w.channels = channels
	w.bits = bits
	w.streamMu.Unlock()
	return nil
}

func (w *worker) closeOutput() {
	w.streamMu.Lock()
	defer w.streamMu.Unlock()
	if w.stream == nil {
		return
	}
	w.stream.StopStream()
	w.stream.Close()
	w.stream = nil
}

// produce decodes sess's track and writes the resulting PCM into sess's
// ring buffer until the decoder is exhausted or sess is torn down,
// generalizing pkg/audioplayer.Player's producer goroutine onto the
// command-driven Controller.
func (w *worker) produce(sess *trackSession) {
	defer sess.wg.Done()
	defer sess.producerDone.Store(true)

	buf := make([]byte, produceChunkFrames*sess.bytesPerFrame)

	for {
		select {
		case <-sess.stop:
			return
		default:
		}

		n, decErr := sess.decoder.DecodeSamples(produceChunkFrames, buf)
		if n == 0 {
			return
		}
		toWrite := n * sess.bytesPerFrame

		for {
			if _, werr := sess.ringbuf.Write(buf[:toWrite]); werr == nil {
				break
			}
			select {
			case <-sess.stop:
				return
			case <-time.After(retryInterval):
			}
		}

		if decErr != nil {
			return
		}
	}
}

// consume reads decoded PCM from sess's ring buffer and writes it to the
// device stream, applying volume and respecting the pause gate, and tracks
// the actual output position (not the decode-ahead position), generalizing
// pkg/audioplayer.Player's consumer goroutine onto the command-driven
// Controller. It detects natural end of track once the producer is done
// and the ring buffer has fully drained.
func (w *worker) consume(sess *trackSession) {
	defer sess.wg.Done()

	buf := make([]byte, outputFramesPerBuffer*sess.bytesPerFrame)
	lastTimestamp := time.Now()

	for {
		select {
		case <-sess.stop:
			return
		default:
		}

		w.controller.gate.Wait(sess.stop)
		select {
		case <-sess.stop:
			return
		default:
		}

		n, err := sess.ringbuf.Read(buf)
		if err != nil || n == 0 {
			if sess.producerDone.Load() && sess.ringbuf.AvailableRead() == 0 {
				w.finishTrack(sess)
				return
			}
			select {
			case <-sess.stop:
				return
			case <-time.After(retryInterval):
			}
			continue
		}

		frames := n / sess.bytesPerFrame
		if frames == 0 {
			continue
		}
		aligned := frames * sess.bytesPerFrame
		applyVolume16(buf[:aligned], w.getVolume(), sess.bits)

		w.streamMu.RLock()
		stream := w.stream
		w.streamMu.RUnlock()

		if stream != nil {
			if werr := stream.Write(frames, buf[:aligned]); werr != nil {
				w.controller.emit(Event{Kind: EventError, Err: werr})
				return
			}
		}

		written := sess.samplesWritten.Add(uint64(frames))
		position := sess.basePosition + float64(written)/float64(sess.sampleRate)
		w.controller.position.Store(float64Bits(position))

		if time.Since(lastTimestamp) >= timestampInterval {
			w.controller.emit(Event{Kind: EventTimestamp, Position: position, Duration: float64FromBits(w.controller.duration.Load())})
			lastTimestamp = time.Now()
		}
	}
}

// finishTrack finalizes natural end-of-track. The CompareAndSwap only
// succeeds if sess is still the active session, so a finish racing against
// a newer StreamFile/Seek/Stop that already replaced it is a no-op: that
// newer command already emitted whatever state applies.
func (w *worker) finishTrack(sess *trackSession) {
	if !w.session.CompareAndSwap(sess, nil) {
		return
	}
	sess.decoder.Close()
	w.controller.playing.Store(false)
	w.controller.position.Store(0)
	w.controller.emit(Event{Kind: EventEndOfTrack})
	w.controller.emit(Event{Kind: EventState, Playing: false})
}

// applyVolume16 scales 16-bit PCM samples in place by volume in [0,1]. Other
// bit depths (such as 24-bit or 32-bit WAV) are passed through unscaled, so
// volume has no effect on them.
func applyVolume16(buf []byte, volume float64, bits int) {
	if bits != 16 || volume == 1.0 {
		return
	}
	for i := 0; i+1 < len(buf); i += 2 {
		sample := int16(uint16(buf[i]) | uint16(buf[i+1])<<8)
		scaled := int16(float64(sample) * volume)
		buf[i] = byte(scaled)
		buf[i+1] = byte(scaled >> 8)
	}
}

func float64Bits(f float64) uint64     { return math.Float64bits(f) }
func float64FromBits(b uint64) float64 { return math.Float64frombits(b) }
