package cli

// Default values for CLI flags and formatted output.
const (
	// TabWidth is the width of tabs in formatted output.
	TabWidth = 2

	// OutputText and OutputJSON are the accepted --output values.
	OutputText = "text"
	OutputJSON = "json"
)
