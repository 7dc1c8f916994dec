package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	client "github.com/rm-Shayan/finetech-frontened/client"
	"github.com/rm-Shayan/finetech-frontened/internal/config"
	"github.com/rm-Shayan/finetech-frontened/internal/logger"
)

var (
	apiURL   string
	roleName string
	stateDir string
	debug    bool
)

const commandTimeout = 15 * time.Second

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "complaintctl",
		Short:         "complaintctl drives the complaint portal as a customer, bank officer or regulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			lvl := zerolog.InfoLevel
			if debug {
				lvl = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(lvl)
			log.Logger = logger.NewConsole(lvl)
			log.Debug().Msg("debug logging enabled")
		},
	}

	defaults := config.NewForTesting()
	if cfg, err := config.New(); err == nil {
		defaults = cfg
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", defaults.APIURL, "Base URL of the complaint API (COMPLAINTDESK_API_URL)")
	rootCmd.PersistentFlags().StringVarP(&roleName, "role", "r", "customer", "Portal to act as: customer, bank_officer or sbp_admin")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", defaults.StateDir, "Directory holding saved sessions (default ~/.complaintdesk)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	rootCmd.AddCommand(newPingCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newSignupCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newGuardCmd())
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newForgotPasswordCmd())
	rootCmd.AddCommand(newResetPasswordCmd())
	rootCmd.AddCommand(newUpdatePasswordCmd())
	rootCmd.AddCommand(newComplaintsCmd())
	rootCmd.AddCommand(newRemarksCmd())
	rootCmd.AddCommand(newBanksCmd())
	rootCmd.AddCommand(newUsersCmd())
	rootCmd.AddCommand(newRegisterOfficerCmd())

	return rootCmd
}

// openPortal builds a client for the flags of cmd and returns the portal of
// the selected role with any saved session restored. The caller closes the
// returned client.
func openPortal(cmd *cobra.Command) (*client.Client, *client.Portal, error) {
	role, err := client.ParseRole(roleName)
	if err != nil {
		return nil, nil, err
	}
	errOut := cmd.ErrOrStderr()
	nav := client.NavigatorFunc(func(_ context.Context, dst client.Destination) {
		fmt.Fprintf(errOut, "login required: %s\n", dst.Path)
	})
	log.Debug().Str("api_url", apiURL).Str("role", role.String()).Str("state_dir", stateDir).Msg("opening portal")

	c, err := client.New(apiURL,
		client.WithNavigator(nav),
		client.WithDebugLogging(debug),
		client.WithStateDir(stateDir),
	)
	if err != nil {
		return nil, nil, err
	}
	p, err := c.Portal(role)
	if err != nil {
		_ = c.Close()
		return nil, nil, err
	}
	return c, p, nil
}

// withPortal runs fn with a fresh portal and the standard command timeout.
func withPortal(cmd *cobra.Command, fn func(ctx context.Context, p *client.Portal) error) error {
	c, p, err := openPortal(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	start := time.Now()
	err = fn(ctx, p)
	log.Debug().Dur("elapsed", time.Since(start)).Str("command", cmd.CommandPath()).Msg("done")
	if err != nil {
		if msg := client.UserMessage(err); msg != "" && msg != err.Error() {
			return fmt.Errorf("%s: %w", msg, err)
		}
	}
	return err
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readFile loads a file for upload, taking the content type from the
// extension and falling back to sniffing.
func readFile(path string) (client.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return client.File{}, err
	}
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return client.File{Name: filepath.Base(path), ContentType: ct, Data: data}, nil
}

func readFiles(paths []string) ([]client.File, error) {
	out := make([]client.File, 0, len(paths))
	for _, p := range paths {
		f, err := readFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// promptLine writes prompt to w and reads one trimmed line from r.
func promptLine(r io.Reader, w io.Writer, prompt string) string {
	fmt.Fprint(w, prompt)
	line, _ := bufio.NewReader(r).ReadString('\n')
	return strings.TrimSpace(line)
}
