package domain

// ControlSentinel is the wire form of the end-of-stream marker. It is written
// as the last line sent to the translator and the translator is expected to
// answer it with a last line of its own.
const ControlSentinel = "CONTROL LINE: 42"

// Line is an element of the streams between the pipeline stages and the
// translator. End marks the end of the stream and carries no content; Text on
// an End line only records what the translator answered to the control line.
type Line struct {
	Text string
	End  bool
}

// DataLine wraps text as a content line.
func DataLine(text string) Line {
	return Line{Text: text}
}

// EndOfStream returns the marker closing a stream.
func EndOfStream() Line {
	return Line{Text: ControlSentinel, End: true}
}
