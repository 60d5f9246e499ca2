package utils

// Chunk splits values into consecutive batches of at most size elements,
// preserving order.
func Chunk(values []string, size int) [][]string {
	if size <= 0 || len(values) == 0 {
		return nil
	}

	batches := make([][]string, 0, (len(values)+size-1)/size)
	for start := 0; start < len(values); start += size {
		end := start + size
		if end > len(values) {
			end = len(values)
		}
		batches = append(batches, values[start:end])
	}
	return batches
}
