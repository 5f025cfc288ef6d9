package parallel

// Band is a contiguous run of rows [Start, End).
type Band struct {
	Start, End int
}

// Len returns the number of rows in the band.
func (b Band) Len() int { return b.End - b.Start }

// Bands splits [start, end) into consecutive bands of at most size rows.
// The bands cover the range exactly, in order. An empty range yields nil.
func Bands(start, end, size int) []Band {
	if end <= start {
		return nil
	}
	size = max(size, 1)
	out := make([]Band, 0, (end-start+size-1)/size)
	for s := start; s < end; s += size {
		out = append(out, Band{Start: s, End: min(s+size, end)})
	}
	return out
}

// BandSize picks a band height for rows rows spread over workers workers:
// about four bands per worker so stealing can even out slow bands, but
// never fewer than minRows rows per band.
func BandSize(rows, workers, minRows int) int {
	workers = max(workers, 1)
	size := (rows + 4*workers - 1) / (4 * workers)
	return max(size, minRows, 1)
}
