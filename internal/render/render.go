package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Afrawles/dataproc/internal/bfhl"
	"github.com/Afrawles/dataproc/internal/coordinator"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	pillStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Background(lipgloss.Color("236")).Padding(0, 1)
	okStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	failStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	sumStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	concatStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	alertStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(0, 1)
	warnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("11")).
			Foreground(lipgloss.Color("11")).
			Padding(0, 1)

	upper = cases.Upper(language.English)
)

const (
	AppTitle    = "Data Processor"
	AppSubtitle = "Enter comma-separated values to call the BFHL API."
	LoadingText = "Processing..."
)

// State writes the view of st. Idle renders nothing.
func State(w io.Writer, st coordinator.State) error {
	_, err := io.WriteString(w, StateString(st))
	return err
}

func StateString(st coordinator.State) string {
	switch st.Status {
	case coordinator.StatusLoading:
		return mutedStyle.Render(LoadingText) + "\n"
	case coordinator.StatusFailed:
		return Error(st.Message()) + "\n"
	case coordinator.StatusSuccess:
		if st.Result == nil {
			return ""
		}
		return Response(st.Result)
	default:
		return ""
	}
}

func Error(msg string) string {
	return alertStyle.Render(failStyle.Render("Error: ") + msg)
}

// Response renders the summary cards followed by the categorized arrays.
func Response(resp *bfhl.Response) string {
	var b strings.Builder

	status := failStyle.Render(resp.Status())
	if resp.IsSuccess {
		status = okStyle.Render(resp.Status())
	}

	card(&b, "Status", status)
	card(&b, "User ID", valueStyle.Render(resp.UserID.String()))
	card(&b, "Email", valueStyle.Render(resp.Email.String()))
	card(&b, "Roll Number", valueStyle.Render(resp.RollNumber.String()))
	card(&b, "Sum of Numbers", sumStyle.Render(resp.Sum.String()))
	card(&b, "Concatenated String", concatStyle.Render(resp.ConcatString.String()))

	b.WriteString("\n")
	b.WriteString(headingStyle.Render(upper.String("Categorized Arrays")))
	b.WriteString("\n")
	for _, c := range resp.Categories() {
		fmt.Fprintf(&b, "  %s\n    %s\n", headingStyle.Render(c.Title), pills(c.Values))
	}

	return b.String()
}

func card(b *strings.Builder, title, value string) {
	fmt.Fprintf(b, "%s %s\n", mutedStyle.Width(22).Render(upper.String(title)), value)
}

func pills(values []bfhl.Value) string {
	if len(values) == 0 {
		return mutedStyle.Render("None")
	}
	rendered := make([]string, len(values))
	for i, v := range values {
		rendered[i] = pillStyle.Render(v.String())
	}
	return strings.Join(rendered, " ")
}

func Header() string {
	return titleStyle.Render(AppTitle) + "\n" + mutedStyle.Render(AppSubtitle)
}

// EndpointWarning is shown when the endpoint looks like the wrong deployment.
func EndpointWarning(endpoint string) string {
	return warnStyle.Render(
		"Warning: your API URL looks incorrect!\n" +
			endpoint + " does not look like the processing API.\n" +
			"Set DATAPROC_ENDPOINT (or --endpoint) to the API deployment URL.",
	)
}

func Footer(endpoint string) string {
	return mutedStyle.Render("API endpoint in use: ") + sumStyle.Render(endpoint)
}
