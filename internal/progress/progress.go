package progress

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
)

type Progress struct {
	bar     *progressbar.ProgressBar
	current string
}

func New() *Progress {
	return &Progress{
		bar: progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("Starting..."),
			progressbar.OptionSetWidth(50),
			progressbar.OptionShowBytes(false),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		),
	}
}

// NewCounted returns a bar that tracks n discrete steps, for batch runs
// where the total is known up front.
func NewCounted(n int, description string) *Progress {
	return &Progress{
		bar: progressbar.NewOptions(n,
			progressbar.OptionSetDescription(description),
			progressbar.OptionSetWidth(50),
			progressbar.OptionShowCount(),
			progressbar.OptionSetRenderBlankState(true),
		),
	}
}

func (p *Progress) Update(status string) {
	p.current = status
	p.bar.Describe(fmt.Sprintf("[cyan]%s[reset]", status))
	p.bar.Add(1)
}

func (p *Progress) Step() {
	p.bar.Add(1)
}

func (p *Progress) Clear() {
	p.bar.Clear()
}
