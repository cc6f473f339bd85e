// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/steward/cmd/steward/cli"
	"github.com/bureau-foundation/steward/cmd/steward/cli/doctor"
	"github.com/bureau-foundation/steward/lib/bootstrap"
	"github.com/bureau-foundation/steward/lib/bridgeconf"
	"github.com/bureau-foundation/steward/lib/cron"
	"github.com/bureau-foundation/steward/lib/crontab"
	"github.com/bureau-foundation/steward/lib/vault"
)

// commandParams holds the parameters for the doctor command.
type commandParams struct {
	jsonOut bool
	fix     bool
}

// Command returns the "steward doctor" command for diagnosing the
// container environment.
func Command() *cli.Command {
	var params commandParams

	return &cli.Command{
		Name:    "doctor",
		Summary: "Diagnose the steward container environment",
		Description: `Check the full steward runtime end-to-end: environment variables, the
data volume, the boot receipt, the courier configuration, the vault
tree, the skills link, the digest cron job, the cron daemon, and the
git and courier binaries.

Failures steward can repair itself carry a fix hint; run with --fix to
apply them. The fixes re-run the same reconciliation steward-init
performs, so they never clobber user-edited files. Everything else
prints what is wrong and which variable or mount to correct.`,
		Usage: "steward doctor [flags]",
		Examples: []cli.Example{
			{
				Description: "Check container health",
				Command:     "steward doctor",
			},
			{
				Description: "Repair what can be repaired",
				Command:     "steward doctor --fix",
			},
			{
				Description: "Machine-readable output",
				Command:     "steward doctor --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("doctor", pflag.ContinueOnError)
			flags.BoolVar(&params.jsonOut, "json", false, "emit results as JSON")
			flags.BoolVar(&params.fix, "fix", false, "apply fixes for repairable failures")
			return flags
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			return runDoctor(ctx, params)
		},
	}
}

// checkState accumulates discovered state across checks so later
// checks can reuse what earlier ones found without repeating work.
type checkState struct {
	// env is the parsed desired state. Nil when the environment check
	// failed; every check that needs it then skips.
	env *bootstrap.DesiredState

	// configPath is the courier configuration file under scrutiny.
	// Empty when the home directory could not be resolved.
	configPath string

	// receipt is the last boot receipt. Nil when missing or
	// unreadable.
	receipt *bootstrap.Receipt

	// table reads the crontab for the digest job check. Tests
	// substitute a fake.
	table crontab.Table
}

func runDoctor(ctx context.Context, params commandParams) error {
	state := checkState{table: crontab.NewSystemTable()}
	if home, err := os.UserHomeDir(); err == nil {
		state.configPath = bridgeconf.DefaultPath(home)
	}

	results := runChecks(ctx, &state)

	fixed := 0
	if params.fix {
		fixed = doctor.ExecuteFixes(ctx, results)
	}

	if state.env != nil {
		state.env.Close()
	}

	if params.jsonOut {
		if err := cli.WriteJSON(doctor.BuildJSON(results, fixed)); err != nil {
			return err
		}
		for _, result := range results {
			if result.Status == doctor.StatusFail {
				return &cli.ExitError{Code: 1}
			}
		}
		return nil
	}

	return doctor.PrintChecklist(results, params.fix, fixed)
}

// runChecks executes every check in order and returns the combined
// results. Fixes are not applied here; the caller decides.
func runChecks(ctx context.Context, state *checkState) []doctor.Result {
	var results []doctor.Result

	results = append(results, checkEnvironment(state))
	results = append(results, checkDataDir(state))
	results = append(results, checkBootReceipt(state))
	results = append(results, checkCourierConfig(state))
	results = append(results, checkVaultTree(state))
	results = append(results, checkSkillsLink(state))
	results = append(results, checkDigestJob(ctx, state))
	results = append(results, checkCronDaemon(state))
	results = append(results, checkBinaries()...)

	return results
}

func checkEnvironment(state *checkState) doctor.Result {
	env, err := bootstrap.FromEnvironment()
	if err != nil {
		return doctor.Fail("environment", err.Error())
	}
	state.env = env

	detail := fmt.Sprintf("data=%s vault=%s", env.DataDir, env.VaultDir)
	if !env.HasModelKey() {
		detail += " (no model-provider key)"
	}
	return doctor.Pass("environment", detail)
}

// checkDataDir probes the volume with a throwaway temp file. A
// read-only or missing mount is not fixable from inside the container.
func checkDataDir(state *checkState) doctor.Result {
	if state.env == nil {
		return doctor.Skip("data directory", "skipped: environment not parsed")
	}

	dataDir := state.env.DataDir
	info, err := os.Stat(dataDir)
	if err != nil {
		return doctor.Fail("data directory",
			fmt.Sprintf("%s: %v (is the volume mounted?)", dataDir, err))
	}
	if !info.IsDir() {
		return doctor.Fail("data directory",
			fmt.Sprintf("%s exists but is not a directory", dataDir))
	}

	probe, err := os.CreateTemp(dataDir, ".steward-doctor-*")
	if err != nil {
		return doctor.Fail("data directory",
			fmt.Sprintf("%s is not writable: %v", dataDir, err))
	}
	probe.Close()
	os.Remove(probe.Name())

	return doctor.Pass("data directory", fmt.Sprintf("%s writable", dataDir))
}

// receiptStaleAfter flags a bootstrap that has not run recently. The
// container re-runs steward-init on every start, so an older receipt
// usually means init is failing before the write.
const receiptStaleAfter = 48 * time.Hour

func checkBootReceipt(state *checkState) doctor.Result {
	if state.env == nil {
		return doctor.Skip("boot receipt", "skipped: environment not parsed")
	}

	path := state.env.ReceiptPath()
	receipt, err := bootstrap.ReadReceipt(path)
	if err != nil {
		if os.IsNotExist(err) {
			return doctor.Fail("boot receipt",
				fmt.Sprintf("no receipt at %s (has steward-init run?)", path))
		}
		return doctor.Fail("boot receipt", fmt.Sprintf("cannot read %s: %v", path, err))
	}
	state.receipt = receipt

	age := time.Since(receipt.FinishedAt)
	if age > receiptStaleAfter {
		return doctor.Warn("boot receipt",
			fmt.Sprintf("last bootstrap %s ago (%d steps)", age.Round(time.Hour), len(receipt.Steps)))
	}
	return doctor.Pass("boot receipt",
		fmt.Sprintf("bootstrap finished %s ago (%d steps)", age.Round(time.Minute), len(receipt.Steps)))
}

func checkCourierConfig(state *checkState) doctor.Result {
	if state.env == nil {
		return doctor.Skip("courier config", "skipped: environment not parsed")
	}
	if state.configPath == "" {
		return doctor.Fail("courier config", "cannot resolve the home directory for the config path")
	}

	path := state.configPath
	fix := renderConfigFix(state.env, path)

	config, err := bridgeconf.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return doctor.FailWithFix("courier config",
				fmt.Sprintf("missing at %s", path),
				"re-render from the environment", fix)
		}
		return doctor.FailWithFix("courier config",
			fmt.Sprintf("%v", err),
			"re-render from the environment", fix)
	}

	telegram := config.Transports.Telegram
	if telegram.BotToken == bridgeconf.PlaceholderBotToken || telegram.ChatID == 0 {
		if _, _, usable := state.env.TelegramTarget(); usable {
			return doctor.FailWithFix("courier config",
				fmt.Sprintf("%s carries placeholder Telegram values but the environment has a usable target", path),
				"re-render from the environment", fix)
		}
		return doctor.Warn("courier config",
			fmt.Sprintf("%s carries placeholder Telegram values; set STEWARD_TELEGRAM_BOT_TOKEN and STEWARD_TELEGRAM_CHAT_ID", path))
	}

	return doctor.Pass("courier config", fmt.Sprintf("%s (chat %d)", path, telegram.ChatID))
}

// renderConfigFix returns a fix that rewrites the courier config the
// same way the bootstrap does. The token value is copied out of the
// secret buffer now; the buffer is released before output, which can
// be after fixes in JSON mode.
func renderConfigFix(env *bootstrap.DesiredState, path string) doctor.FixAction {
	params := bridgeconf.Params{ChatID: env.TelegramChatID}
	if env.TelegramBotToken != nil {
		params.BotToken = env.TelegramBotToken.String()
	}
	return func(ctx context.Context) error {
		return bridgeconf.Write(path, bridgeconf.Render(params))
	}
}

func checkVaultTree(state *checkState) doctor.Result {
	if state.env == nil {
		return doctor.Skip("vault tree", "skipped: environment not parsed")
	}

	tree := state.env.Tree()
	var missing []string
	for _, relative := range vault.Directories() {
		info, err := os.Stat(filepath.Join(tree.VaultDir, relative))
		if err != nil || !info.IsDir() {
			missing = append(missing, relative+"/")
		}
	}
	for _, relative := range vault.SeedDocuments() {
		if _, err := os.Stat(filepath.Join(tree.VaultDir, relative)); err != nil {
			missing = append(missing, relative)
		}
	}
	if _, err := os.Stat(tree.InstructionsPath()); err != nil {
		missing = append(missing, tree.InstructionsPath())
	}

	if len(missing) > 0 {
		fix := func(ctx context.Context) error {
			_, err := vault.Scaffold(tree)
			return err
		}
		return doctor.FailWithFix("vault tree",
			fmt.Sprintf("%d nodes missing: %s", len(missing), strings.Join(missing, ", ")),
			"re-run the vault scaffold", fix)
	}

	detail := fmt.Sprintf("%d directories, %d seed documents",
		len(vault.Directories()), len(vault.SeedDocuments()))
	if edited := editedSeeds(state); len(edited) > 0 {
		detail += fmt.Sprintf(", %d edited since bootstrap", len(edited))
	}
	return doctor.Pass("vault tree", detail)
}

// editedSeeds returns the seed documents whose content no longer
// matches the hash the boot receipt recorded when writing them. These
// are user-owned now; nothing rewrites them, the count is informative.
func editedSeeds(state *checkState) []string {
	if state.receipt == nil {
		return nil
	}
	step := state.receipt.Step("vault")
	if step == nil {
		return nil
	}

	var edited []string
	for _, outcome := range step.Outcomes {
		if outcome.Kind != vault.KindFile || outcome.ContentHash == "" {
			continue
		}
		data, err := os.ReadFile(outcome.Path)
		if err != nil {
			continue
		}
		if vault.HashContent(data) != outcome.ContentHash {
			edited = append(edited, filepath.Base(outcome.Path))
		}
	}
	return edited
}

func checkSkillsLink(state *checkState) doctor.Result {
	if state.env == nil {
		return doctor.Skip("skills link", "skipped: environment not parsed")
	}

	tree := state.env.Tree()
	linkPath := tree.SkillsLink()
	target := tree.SkillsDir()

	info, err := os.Lstat(linkPath)
	if os.IsNotExist(err) {
		fix := func(ctx context.Context) error {
			if err := os.MkdirAll(filepath.Dir(linkPath), 0o755); err != nil {
				return err
			}
			_, err := vault.EnsureSymlink(linkPath, target)
			return err
		}
		return doctor.FailWithFix("skills link",
			fmt.Sprintf("missing at %s", linkPath),
			"link the agent home to the vault skills", fix)
	}
	if err != nil {
		return doctor.Fail("skills link", fmt.Sprintf("cannot inspect %s: %v", linkPath, err))
	}
	if info.Mode()&os.ModeSymlink == 0 {
		// A real directory here may hold user content; never replace
		// it automatically.
		return doctor.Warn("skills link",
			fmt.Sprintf("%s exists but is not a symlink; leaving it alone", linkPath))
	}

	current, err := os.Readlink(linkPath)
	if err != nil {
		return doctor.Fail("skills link", fmt.Sprintf("cannot read link %s: %v", linkPath, err))
	}
	if current != target {
		fix := func(ctx context.Context) error {
			if err := os.Remove(linkPath); err != nil {
				return err
			}
			_, err := vault.EnsureSymlink(linkPath, target)
			return err
		}
		return doctor.FailWithFix("skills link",
			fmt.Sprintf("points to %s, want %s", current, target),
			"re-point the link at the vault skills", fix)
	}

	return doctor.Pass("skills link", fmt.Sprintf("%s -> %s", linkPath, target))
}

func checkDigestJob(ctx context.Context, state *checkState) doctor.Result {
	if state.env == nil {
		return doctor.Skip("digest job", "skipped: environment not parsed")
	}
	if !state.env.HasModelKey() {
		return doctor.Skip("digest job", "skipped: no model-provider key, digest not scheduled")
	}

	lines, err := state.table.Read(ctx)
	if err != nil {
		return doctor.Skip("digest job", fmt.Sprintf("skipped: crontab unreadable: %v", err))
	}

	count := 0
	jobLine := ""
	for _, line := range lines {
		if strings.Contains(line, crontab.DigestMarker) {
			count++
			jobLine = line
		}
	}

	switch count {
	case 0:
		return doctor.Fail("digest job",
			fmt.Sprintf("no crontab line carries %q; re-run steward-init", crontab.DigestMarker))
	case 1:
		expression := state.env.DigestSchedule()
		if !strings.HasPrefix(jobLine, expression+" ") {
			return doctor.Warn("digest job",
				fmt.Sprintf("installed schedule differs from the environment's %q; re-run steward-init", expression))
		}
		detail := fmt.Sprintf("scheduled %q", expression)
		if schedule, err := cron.Parse(expression); err == nil {
			if next, err := schedule.Next(time.Now()); err == nil {
				detail += ", next run " + next.Format(time.RFC3339)
			}
		}
		return doctor.Pass("digest job", detail)
	default:
		return doctor.Fail("digest job",
			fmt.Sprintf("expected exactly one digest line, found %d", count))
	}
}

// procRoot is where the daemon scan reads process names. Variable
// rather than constant to allow test overrides.
var procRoot = "/proc"

func checkCronDaemon(state *checkState) doctor.Result {
	if state.env != nil && !state.env.HasModelKey() {
		return doctor.Skip("cron daemon", "skipped: no model-provider key, digest not scheduled")
	}

	if pid, name, running := findCronDaemon(); running {
		return doctor.Pass("cron daemon", fmt.Sprintf("%s running (pid %d)", name, pid))
	}

	fix := func(ctx context.Context) error {
		starter := &crontab.DaemonStarter{}
		return starter.Start(ctx)
	}
	return doctor.FailWithFix("cron daemon",
		"no crond or cron process found; the digest job will never fire",
		"start the cron daemon", fix)
}

// findCronDaemon scans procRoot for a process whose comm is a cron
// daemon name.
func findCronDaemon() (int, string, bool) {
	entries, err := os.ReadDir(procRoot)
	if err != nil {
		return 0, "", false
	}
	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		comm, err := os.ReadFile(filepath.Join(procRoot, entry.Name(), "comm"))
		if err != nil {
			continue
		}
		name := strings.TrimSpace(string(comm))
		if name == "crond" || name == "cron" {
			return pid, name, true
		}
	}
	return 0, "", false
}

// fallbackCourierBinary mirrors the path steward-init execs when
// courier is not on PATH.
const fallbackCourierBinary = "/usr/local/bin/courier"

func checkBinaries() []doctor.Result {
	var results []doctor.Result

	if path, err := exec.LookPath("git"); err != nil {
		results = append(results, doctor.Fail("git binary",
			"not on PATH; repository sync cannot run"))
	} else {
		results = append(results, doctor.Pass("git binary", path))
	}

	if path, err := exec.LookPath("courier"); err == nil {
		results = append(results, doctor.Pass("courier binary", path))
	} else if info, statErr := os.Stat(fallbackCourierBinary); statErr == nil && info.Mode().IsRegular() && info.Mode()&0o111 != 0 {
		results = append(results, doctor.Pass("courier binary", fallbackCourierBinary))
	} else {
		results = append(results, doctor.Fail("courier binary",
			fmt.Sprintf("not on PATH and no %s; steward-init cannot hand off", fallbackCourierBinary)))
	}

	return results
}
