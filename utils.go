package pagesort

import "encoding/binary"

func bytesIsZero(data []byte) bool {
	var v uint64
	for len(data) >= 32 {
		v |= binary.LittleEndian.Uint64(data[0:])
		v |= binary.LittleEndian.Uint64(data[8:])
		v |= binary.LittleEndian.Uint64(data[16:])
		v |= binary.LittleEndian.Uint64(data[24:])
		if v != 0 {
			return false
		}
		data = data[32:]
	}
	for _, b := range data {
		v |= uint64(b)
	}
	return v == 0
}

func ceilDiv(a, b int64) int64 {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
