package pagesort

// Page is exactly RecordsPerPage records, the unit of disk I/O.
type Page []Record

// IsEmpty reports whether every record of the page is an unwritten slot. An
// empty page is treated as absent by ReadPage.
func (p Page) IsEmpty() bool {
	for _, r := range p {
		if !r.IsEmpty() {
			return false
		}
	}
	return true
}

// decodePage slices buf into records of recordSize bytes. The records share
// buf, which must not be reused afterwards.
func decodePage(buf []byte, recordSize, recordsPerPage int) Page {
	page := make(Page, recordsPerPage)
	for i := range page {
		page[i] = Record(buf[i*recordSize : (i+1)*recordSize : (i+1)*recordSize])
	}
	return page
}

func (p Page) encode(recordSize int) []byte {
	buf := make([]byte, len(p)*recordSize)
	for i, r := range p {
		copy(buf[i*recordSize:(i+1)*recordSize], r)
	}
	return buf
}

// normalizePage builds a fresh page of exactly recordsPerPage records of
// recordSize bytes from records, dropping extras and padding with empty records.
func normalizePage(records []Record, recordSize, recordsPerPage int) Page {
	buf := make([]byte, recordSize*recordsPerPage)
	for i, r := range records {
		if i >= recordsPerPage {
			break
		}
		copy(buf[i*recordSize:(i+1)*recordSize], r)
	}
	return decodePage(buf, recordSize, recordsPerPage)
}
