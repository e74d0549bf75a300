package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/typeahead/internal/autocomplete"
	"github.com/oakwood-commons/typeahead/internal/formatter"
	"github.com/oakwood-commons/typeahead/internal/source"
)

var (
	suggestKeys    []string
	suggestOutput  string
	suggestTimeout time.Duration
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <text>",
	Short: "Type text into the controller headlessly and print the final snapshot",
	Long: "suggest types <text>, waits for suggestions, replays --keys and prints the\n" +
		"resulting snapshot. Keys: Up, Down, Enter, Submit, Reset, Pick=N (1-based)\n" +
		"and Click=<suggestion>.",
	Example: "  typeahead suggest cat\n  typeahead suggest cat --keys Down,Down,Enter -o yaml\n" +
		"  typeahead suggest dol --keys Pick=1 --error-rate 0",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := formatter.ParseOutput(suggestOutput)
		if err != nil {
			return err
		}
		events, err := parseKeyEvents(suggestKeys)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := applyThemeFromConfig(cfg); err != nil {
			return err
		}
		src, err := buildSource(rootCtx, cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(rootCtx, suggestTimeout)
		defer cancel()
		snap, err := runSuggest(ctx, src, cfg.MinLength(), args[0], events)
		if err != nil {
			return err
		}
		width, _ := detectTerminalSize()
		return printSnapshot(cmd.OutOrStdout(), snap, out, cfg.NoColor(), width)
	},
}

func init() { //nolint:gochecknoinits
	suggestCmd.Flags().StringSliceVar(&suggestKeys, "keys", nil, "keys to replay after the suggestions arrive, comma separated")
	suggestCmd.Flags().StringVarP(&suggestOutput, "output", "o", "table", "output format: table|yaml|json|toml")
	suggestCmd.Flags().DurationVar(&suggestTimeout, "timeout", 30*time.Second, "give up waiting for the source after this long")
}

// parseKeyEvents maps --keys entries to controller events.
func parseKeyEvents(keys []string) ([]autocomplete.Event, error) {
	events := make([]autocomplete.Event, 0, len(keys))
	for _, raw := range keys {
		name, arg, hasArg := strings.Cut(strings.TrimSpace(raw), "=")
		switch strings.ToLower(name) {
		case "":
			continue
		case "up":
			events = append(events, autocomplete.KeyPressed{Key: autocomplete.KeyArrowUp})
		case "down":
			events = append(events, autocomplete.KeyPressed{Key: autocomplete.KeyArrowDown})
		case "enter":
			events = append(events, autocomplete.KeyPressed{Key: autocomplete.KeyEnter})
		case "submit":
			events = append(events, autocomplete.SubmitRequested{})
		case "reset":
			events = append(events, autocomplete.Reset{})
		case "click":
			if !hasArg || arg == "" {
				return nil, fmt.Errorf("key %q: click needs a suggestion, e.g. Click=catfish", raw)
			}
			events = append(events, autocomplete.SuggestionClicked{Query: arg})
		case "pick":
			n, err := strconv.Atoi(arg)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("key %q: pick needs a 1-based index, e.g. Pick=2", raw)
			}
			events = append(events, pickEvent(n-1))
		default:
			return nil, fmt.Errorf("unknown key %q (want Up, Down, Enter, Submit, Reset, Pick=N or Click=<text>)", raw)
		}
	}
	return events, nil
}

// pickEvent clicks the n-th visible suggestion. It is resolved against the
// snapshot at replay time.
type pickEvent int

func (pickEvent) Type() autocomplete.EventType { return autocomplete.EventSuggestionClicked }

// runSuggest drives a Service headlessly: it types text, waits for the
// controller to settle, then replays events, settling after each one.
func runSuggest(ctx context.Context, src source.Source, minLength int, text string, events []autocomplete.Event) (autocomplete.Snapshot, error) {
	svc := autocomplete.NewService(ctx, src, autocomplete.WithMinLength(minLength))
	defer svc.Stop()

	snap, err := sendAndSettle(ctx, svc, autocomplete.TextChanged{Value: text})
	if err != nil {
		return snap, err
	}
	for _, ev := range events {
		if n, ok := ev.(pickEvent); ok {
			if !snap.Matches(autocomplete.StateSuggesting) || int(n) >= len(snap.Context.Suggestions) {
				continue
			}
			ev = autocomplete.SuggestionClicked{Query: snap.Context.Suggestions[n]}
		}
		if sub, ok := ev.(autocomplete.SubmitRequested); ok && sub.Query == "" {
			// Submit what the field would show.
			ev = autocomplete.SubmitRequested{Query: snap.DisplayValue()}
		}
		if snap, err = sendAndSettle(ctx, svc, ev); err != nil {
			return snap, err
		}
	}
	return snap, nil
}

// sendAndSettle sends ev and waits until no fetch is outstanding.
func sendAndSettle(ctx context.Context, svc *autocomplete.Service, ev autocomplete.Event) (autocomplete.Snapshot, error) {
	if err := svc.Send(ev); err != nil {
		return svc.Snapshot(), err
	}
	if _, err := svc.Sync(ctx); err != nil {
		return svc.Snapshot(), err
	}
	snap, err := svc.WaitFor(ctx, func(s autocomplete.Snapshot) bool {
		return !s.Matches(autocomplete.StateFetching)
	})
	if err != nil {
		return snap, fmt.Errorf("waiting for suggestions: %w", err)
	}
	return snap, nil
}

// printSnapshot writes snap as a KEY/VALUE table or a structured encoding.
func printSnapshot(w io.Writer, snap autocomplete.Snapshot, out formatter.Output, noColor bool, width int) error {
	if out != formatter.OutputTable {
		text, err := formatter.Encode(snap, out)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, text)
		return err
	}
	_, err := io.WriteString(w, formatter.RenderTable(snapshotRows(snap), noColor, width))
	return err
}

func snapshotRows(snap autocomplete.Snapshot) [][]string {
	c := snap.Context
	rows := [][]string{
		{"state", strings.Join(snap.State.Paths(), " ")},
		{"query", c.Query},
	}
	for i, s := range c.Suggestions {
		marker := " "
		if i == c.ActiveSuggestionIndex {
			marker = "›"
		}
		rows = append(rows, []string{fmt.Sprintf("%s %d", marker, i+1), s})
	}
	if snap.Matches(autocomplete.StateFetchFailed) {
		rows = append(rows, []string{"message", c.Message})
	}
	if q, ok := snap.CommittedQuery(); ok {
		rows = append(rows, []string{"committed", q})
	}
	rows = append(rows, []string{"generation", strconv.FormatUint(snap.Generation, 10)})
	return rows
}
