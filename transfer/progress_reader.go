package transfer

import "io"

// ProgressFunc receives the number of body bytes handed to the connection so
// far and the total body length.
type ProgressFunc func(sent, total int64)

// ProgressReader reports how much of a request body has been read.
type ProgressReader struct {
	reader   io.Reader
	total    int64
	read     int64
	callback ProgressFunc
}

func NewProgressReader(reader io.Reader, total int64, callback ProgressFunc) *ProgressReader {
	return &ProgressReader{
		reader:   reader,
		total:    total,
		callback: callback,
	}
}

// Read implements io.Reader.
func (pr *ProgressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.read += int64(n)
		pr.invokeCallback()
	}
	return n, err
}

// Len returns the total body length.
func (pr *ProgressReader) Len() int64 {
	return pr.total
}

// Progress is only computable when the total is known.
func (pr *ProgressReader) invokeCallback() {
	if pr.callback != nil && pr.total > 0 {
		pr.callback(pr.read, pr.total)
	}
}

// Percent converts a byte count into a whole percentage in [0,100].
func Percent(sent, total int64) int {
	if total <= 0 || sent <= 0 {
		return 0
	}
	if sent >= total {
		return 100
	}
	// round half up, like Math.round on a non-negative value
	return int((sent*200 + total) / (total * 2))
}
