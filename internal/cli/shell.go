package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmorgan81/autologo/internal/brand"
	"github.com/dmorgan81/autologo/internal/export"
	"github.com/dmorgan81/autologo/internal/feed"
	"github.com/dmorgan81/autologo/internal/session"
	"github.com/samber/do"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2563eb"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#60a5fa"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
)

const shellHelp = `commands:
  name <text>      set the brand name
  color <value>    set the primary color
  style <style>    minimalist, geometric, abstract or symbolic
  trait <trait>    toggle smart, reliable, innovative or scalable
  show             print configuration and preview
  generate         design a logo in the background
  history          list generated logos, newest first
  select <id>      preview a logo from history
  clear            clear history
  export           export the previewed logo
  feed             print the history as RSS
  quit             leave once pending work is done`

// NewShellCmd creates the interactive 'shell' command.
func NewShellCmd(i *do.Injector) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Design logos interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := do.Invoke[*session.Session](i)
			if err != nil {
				return fmt.Errorf("setup: %w", err)
			}
			exporter, err := do.Invoke[*export.Exporter](i)
			if err != nil {
				return fmt.Errorf("setup: %w", err)
			}
			sh := &Shell{
				session:  s,
				exporter: exporter,
				config:   brand.DefaultConfig(),
				out:      cmd.OutOrStdout(),
			}
			return sh.Run(cmd.Context(), cmd.InOrStdin())
		},
	}
}

// Shell is a line oriented front end for a session. Generation runs in the
// background so the configuration can still be edited while it is pending.
type Shell struct {
	session  *session.Session
	exporter *export.Exporter
	config   brand.Config

	outMu sync.Mutex
	out   io.Writer
	wg    sync.WaitGroup
}

func (sh *Shell) Run(ctx context.Context, in io.Reader) error {
	unsubscribe := sh.session.Subscribe(sh.repaint())
	defer unsubscribe()
	defer sh.wg.Wait()

	sh.println(titleStyle.Render("AutoLogo") + " " + mutedStyle.Render("type 'help' for commands"))

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if !sh.exec(ctx, scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

func (sh *Shell) exec(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
	case "help":
		sh.println(shellHelp)
	case "name":
		sh.config.SetField(brand.FieldBrandName, arg)
	case "color":
		sh.config.SetField(brand.FieldPrimaryColor, arg)
	case "style":
		st, err := brand.ParseStyle(arg)
		if err != nil {
			sh.println(errorStyle.Render(err.Error()))
			return true
		}
		sh.config.SetField(brand.FieldStyle, string(st))
	case "trait":
		tr, err := brand.ParseTrait(arg)
		if err != nil {
			sh.println(errorStyle.Render(err.Error()))
			return true
		}
		sh.config.ToggleTrait(tr)
	case "show":
		sh.show()
	case "generate":
		sh.generate(ctx)
	case "history":
		sh.history()
	case "select":
		if !sh.session.SelectFromHistory(arg) {
			sh.println(mutedStyle.Render("no logo " + arg))
		}
	case "clear":
		sh.session.ClearHistory()
		sh.println(mutedStyle.Render("history cleared"))
	case "export":
		sh.export(ctx)
	case "feed":
		rss, err := feed.Generate(ctx, sh.config.BrandName, sh.session.History())
		if err != nil {
			sh.println(errorStyle.Render(err.Error()))
			return true
		}
		sh.println(string(rss))
	case "quit", "exit":
		return false
	default:
		sh.println(errorStyle.Render("unknown command " + cmd))
	}
	return true
}

func (sh *Shell) generate(ctx context.Context) {
	cfg := sh.config.Clone()
	sh.wg.Add(1)
	go func() {
		defer sh.wg.Done()
		logo, err := sh.session.RequestGeneration(ctx, cfg)
		switch {
		case errors.Is(err, session.ErrBusy):
			sh.println(mutedStyle.Render("still designing the previous concept"))
		case err != nil:
			sh.println(errorStyle.Render(sh.session.LastError()))
		default:
			sh.println(fmt.Sprintf("%s %s %s", titleStyle.Render("generated"), logo.ID, logo.Prompt))
		}
	}()
}

// repaint reports transitions into the pending state.
func (sh *Shell) repaint() func(session.State) {
	var mu sync.Mutex
	last := session.StatusIdle
	return func(st session.State) {
		mu.Lock()
		defer mu.Unlock()
		if st.Status == session.StatusPending && last != session.StatusPending {
			sh.println(pendingStyle.Render("designing..."))
		}
		last = st.Status
	}
}

func (sh *Shell) show() {
	st := sh.session.Snapshot()
	traits := lo.Map(sh.config.Personality, func(t brand.Trait, _ int) string { return string(t) })
	sh.println(fmt.Sprintf("brand:  %s\ntraits: %s\ncolor:  %s\nstyle:  %s\nstatus: %s",
		sh.config.BrandName, strings.Join(traits, ", "), sh.config.PrimaryColor, sh.config.Style, st.Status))
	if st.Current != nil {
		sh.println(fmt.Sprintf("preview: %s %s (%s)", st.Current.ID, st.Current.Prompt,
			st.Current.Timestamp.Format("15:04:05")))
	}
	if st.LastError != "" {
		sh.println(errorStyle.Render(st.LastError))
	}
}

func (sh *Shell) history() {
	st := sh.session.Snapshot()
	if len(st.History) == 0 {
		sh.println(mutedStyle.Render("no logos yet"))
		return
	}
	for _, l := range st.History {
		marker := lo.Ternary(st.Current != nil && st.Current.ID == l.ID, "*", " ")
		sh.println(fmt.Sprintf("%s %s %s", marker, l.ID, l.Prompt))
	}
}

func (sh *Shell) export(ctx context.Context) {
	current, ok := sh.session.Current()
	if !ok {
		sh.println(mutedStyle.Render("nothing to export"))
		return
	}
	name, err := sh.exporter.Export(ctx, current, sh.config.BrandName)
	if err != nil {
		sh.println(errorStyle.Render("export failed: " + err.Error()))
		return
	}
	sh.println("exported " + name)
}

func (sh *Shell) println(s string) {
	sh.outMu.Lock()
	defer sh.outMu.Unlock()
	fmt.Fprintln(sh.out, s)
}
