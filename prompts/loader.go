package prompts

import (
	_ "embed"
)

//go:embed description.txt
var Description string

//go:embed top_picks.txt
var TopPicks string
