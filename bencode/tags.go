package bencode

import "strings"

// tagOptions is the comma-separated option list trailing a field name in a
// `bencode:"name,opt1,opt2"` struct tag.
type tagOptions string

func parseTag(tag string) (string, tagOptions) {
	name, opts, _ := strings.Cut(tag, ",")
	return name, tagOptions(opts)
}

func (opts tagOptions) contains(name string) bool {
	s := string(opts)
	for s != "" {
		var opt string
		opt, s, _ = strings.Cut(s, ",")
		if opt == name {
			return true
		}
	}
	return false
}
