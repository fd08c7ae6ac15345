// Package markup builds markup strings from literal fragments and values.
//
// Template interleaves literals with stringified values and strips tabs,
// carriage returns and newlines from the result. It does not escape
// anything; pass untrusted values through Escape first:
//
//	items := []string{}
//	for _, name := range names {
//		items = append(items, markup.Template([]string{"<li>", "</li>"}, markup.Escape(name)))
//	}
//	page := markup.Template([]string{"<ul>\n\t", "\n</ul>"}, items)
//	// <ul><li>a</li><li>b</li></ul>
package markup
