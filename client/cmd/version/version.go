package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goto/salt/log"
	"github.com/spf13/cobra"

	"github.com/goto/jobtrail/client/cmd/internal/logger"
	"github.com/goto/jobtrail/config"
)

const versionTimeout = time.Second * 2

type versionCommand struct {
	logger log.Logger
	host   string
}

// NewVersionCommand initializes command to get version
func NewVersionCommand() *cobra.Command {
	v := &versionCommand{
		logger: logger.NewClientLogger(config.LogLevelInfo),
	}

	cmd := &cobra.Command{
		Use:     "version",
		Short:   "Print the client version information",
		Example: "jobtrail version [--host http://localhost:5000]",
		RunE:    v.RunE,
	}
	cmd.Flags().StringVar(&v.host, "host", "", "JobTrail api url, also prints the server version when set")
	return cmd
}

func (v *versionCommand) RunE(cmd *cobra.Command, _ []string) error {
	v.logger.Info("Client: %s-%s", config.BuildVersion, config.BuildCommit)

	if v.host != "" {
		srvVer, err := getServerVersion(cmd.Context(), v.host)
		if err != nil {
			return err
		}
		v.logger.Info("Server: %s", srvVer)
	}
	return nil
}

func getServerVersion(ctx context.Context, host string) (string, error) {
	endpoint, err := url.JoinPath(strings.TrimRight(host, "/"), "/api/version")
	if err != nil {
		return "", fmt.Errorf("invalid host %s: %w", host, err)
	}

	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?client="+url.QueryEscape(config.BuildVersion), nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed for version: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("request failed for version: status %d", resp.StatusCode)
	}

	var body struct {
		Server string `json:"server"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("invalid version response: %w", err)
	}
	return body.Server, nil
}
