package util

import (
	"strings"

	"github.com/ValentinKolb/dStruct/lib/ds/common"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		if lineWidth > 0 && lineWidth+1+len(word) > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}
		currentLine.WriteString(word)
		lineWidth += len(word)
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}
	return strings.Join(wrappedLines, "\n")
}

// SetupGlobalFlags adds the backend, output and locking flags to the root command
func SetupGlobalFlags(cmd *cobra.Command) {
	def := common.DefaultConfig()

	key := "backend"
	cmd.PersistentFlags().String(key, "maple", WrapString("Store backend (maple, sqlite, raft)"))

	key = "path"
	cmd.PersistentFlags().String(key, "", WrapString("maple: snapshot file that is loaded on start and saved on exit (empty = in-memory only). sqlite: database file (default dstruct.db). raft: data directory (default data)"))

	key = "raft-address"
	cmd.PersistentFlags().String(key, "localhost:63001", WrapString("(raft) Address of this replica"))

	key = "codec"
	cmd.PersistentFlags().String(key, def.Codec, WrapString("Record codec (json, gob, binary)"))

	key = "output"
	cmd.PersistentFlags().StringP(key, "o", "text", WrapString("Output format (text, json, yaml)"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "warn", WrapString("Level at which logs are written to stderr (debug, info, warn, error)"))

	key = "lock-wait"
	cmd.PersistentFlags().Duration(key, def.LockWait, WrapString("How long an operation waits for the lock of its collection"))

	key = "lock-lease"
	cmd.PersistentFlags().Uint64(key, def.LockLease, WrapString("Lease of a collection lock in store writes, a crashed holder blocks the collection at most this long (0 = no lease)"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	viper.SetEnvPrefix("dstruct")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// GetConfig reads the data structure configuration from viper
func GetConfig() common.Config {
	conf := common.DefaultConfig()
	conf.Codec = viper.GetString("codec")
	conf.LogLevel = viper.GetString("log-level")
	conf.LockWait = viper.GetDuration("lock-wait")
	conf.LockLease = viper.GetUint64("lock-lease")
	return conf
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
