// Command msdmtd runs the modem control server: a line-oriented
// command socket, a raw-PCM data socket, and a websocket status
// mirror, configured from a YAML file, environment variables, and
// command-line flags layered through viper the way this codebase's
// appserver.go layers pflag over hardcoded defaults.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hfdsp/msdmt110a/internal/ctlserver"
	"github.com/hfdsp/msdmt110a/internal/modem"
)

func main() {
	configPath := pflag.String("config", "", "path to a msdmtd.yaml config file")
	controlAddr := pflag.String("control-addr", "127.0.0.1:8500", "control command listen address")
	dataAddr := pflag.String("data-addr", "127.0.0.1:8501", "raw PCM data-plane listen address")
	statusAddr := pflag.String("status-addr", "127.0.0.1:8502", "websocket status listen address")
	recordDir := pflag.String("record-dir", "", "directory for RECORD PREFIX captures and the CSV decode log")
	auditLog := pflag.String("audit-log", "", "path for the JSON command audit log (stderr if empty)")
	prunePeriod := pflag.Duration("prune-age", 24*time.Hour, "capture files older than this are pruned hourly")
	pflag.Parse()

	v := viper.New()
	v.SetEnvPrefix("MSDMTD")
	v.AutomaticEnv()
	v.SetDefault("control_addr", *controlAddr)
	v.SetDefault("data_addr", *dataAddr)
	v.SetDefault("status_addr", *statusAddr)
	v.SetDefault("record_dir", *recordDir)
	v.SetDefault("audit_log", *auditLog)
	v.SetDefault("prune_age", prunePeriod.String())

	if *configPath != "" {
		v.SetConfigFile(*configPath)
		if err := v.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "msdmtd: reading config %s: %s\n", *configPath, err)
			os.Exit(1)
		}
	}

	pruneAge, err := time.ParseDuration(v.GetString("prune_age"))
	if err != nil {
		pruneAge = *prunePeriod
	}

	cfg := ctlserver.Config{
		ControlAddr:     v.GetString("control_addr"),
		DataAddr:        v.GetString("data_addr"),
		StatusAddr:      v.GetString("status_addr"),
		RecordDir:       v.GetString("record_dir"),
		AuditLogPath:    v.GetString("audit_log"),
		ModemOptions:    modem.DefaultOptions(),
		CapturePruneAge: pruneAge,
	}

	srv, err := ctlserver.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "msdmtd: %s\n", err)
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "msdmtd: %s\n", err)
		os.Exit(1)
	}
}
