package status

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger prints user-facing result lines for corpus runs. Every line
// is mirrored to zerolog so debug output stays complete.
type UserLogger struct {
	log zerolog.Logger
}

// 🎯 NewUserLogger creates a user logger bound to the context logger
func NewUserLogger(ctx context.Context) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
	}
}

// 📝 LogFileResult reports the outcome of one corpus file
func (u *UserLogger) LogFileResult(info FileInfo) {
	relPath := filepath.Base(info.Path)

	var action string
	var printer *pterm.PrefixPrinter
	switch info.Status {
	case StatusCorrected:
		action = "Corrected"
		printer = pterm.Success.WithPrefix(pterm.Prefix{Text: "✨"})
	case StatusAnalyzed:
		action = "Analyzed"
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: "📊"})
	case StatusSkipped:
		action = "Skipped"
		printer = pterm.Debug.WithPrefix(pterm.Prefix{Text: "⏭️"})
	case StatusFailed:
		action = "Failed"
		printer = pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"})
	default:
		action = "Queued"
		printer = pterm.Debug.WithPrefix(pterm.Prefix{Text: "📄"})
	}

	msg := fmt.Sprintf("%s %s", action, relPath)
	if info.Matches > 0 {
		msg += fmt.Sprintf(" (%d matches)", info.Matches)
	}

	if info.Error != nil {
		printer.Println(msg)
		pterm.Error.Println(info.Error)
		u.log.Error().Err(info.Error).Msg(msg)
	} else {
		printer.Println(msg)
		u.log.Info().Msg(msg)
	}
}

// 📊 LogRunSummary reports an aggregate line for the whole run
func (u *UserLogger) LogRunSummary(description string) {
	printer := pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"})
	printer.Println(description)
	u.log.Info().Msg(description)
}

// 🔍 LogRuleSet reports rule set loading results
func (u *UserLogger) LogRuleSet(valid bool, description string, err error) {
	if valid {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(description)
		u.log.Info().Msg(description)
	} else {
		if err != nil {
			pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(description)
			pterm.Error.Println(err)
			u.log.Error().Err(err).Msg(description)
		} else {
			pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(description)
			u.log.Warn().Msg(description)
		}
	}
}

// 🧪 LogDryRun reports a file that would change if writes were enabled
func (u *UserLogger) LogDryRun(path string, matches int) {
	pterm.Info.WithPrefix(pterm.Prefix{Text: "🔍"}).Printf("Would correct %s (%d matches)\n", filepath.Base(path), matches)
	u.log.Info().Str("path", path).Int("matches", matches).Msg("dry run, skipping write")
}

// ❌ LogFailure reports a fatal error that ends the run
func (u *UserLogger) LogFailure(description string, err error) {
	pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(description)
	if err != nil {
		pterm.Error.Println(err)
	}
	u.log.Error().Err(err).Msg(description)
}
