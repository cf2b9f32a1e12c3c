package display

// Formatter is a function that transforms a register preview
type Formatter func(text string) string

// Pipeline runs a series of formatters in sequence
type Pipeline struct {
	formatters []Formatter
}

// NewPipeline creates a new formatting pipeline
func NewPipeline(formatters ...Formatter) *Pipeline {
	return &Pipeline{
		formatters: formatters,
	}
}

// Default escapes control characters and, when width is positive,
// truncates to width runes.
func Default(width int) *Pipeline {
	p := NewPipeline(EscapeLineBreaks)
	if width > 0 {
		p.AddFormatter(Truncate(width))
	}
	return p
}

// Format runs all formatters in sequence
func (p *Pipeline) Format(text string) string {
	for _, f := range p.formatters {
		text = f(text)
	}
	return text
}

// AddFormatter adds a formatter to the pipeline
func (p *Pipeline) AddFormatter(f Formatter) {
	p.formatters = append(p.formatters, f)
}
