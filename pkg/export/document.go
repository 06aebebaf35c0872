package export

// Entry is one labelled line of a document.
type Entry struct {
	Label string
	Value string
}

// Document is an ordered list of labelled values with a title.
type Document struct {
	Title   string
	Entries []Entry
}
