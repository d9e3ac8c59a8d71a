package util

import (
	"strings"

	"github.com/ValentinKolb/accelbuf/lib/logging"
	"github.com/ValentinKolb/accelbuf/lib/message"
	"github.com/ValentinKolb/accelbuf/lib/proxy"
	"github.com/ValentinKolb/accelbuf/lib/serializer"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
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
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupCodecFlags adds the flags shared by all commands that encode or decode
func SetupCodecFlags(cmd *cobra.Command) {
	key := "serializer"
	cmd.PersistentFlags().String(key, "accel", WrapString("serializer to use ("+strings.Join(serializer.Names(), ", ")+")"))

	key = "strict"
	cmd.PersistentFlags().Bool(key, false, WrapString("Require every field to be present in the stream (only for the accel serializer)"))

	key = "buffer-size"
	cmd.PersistentFlags().Int(key, proxy.DefaultInitialBufferSize, WrapString("Initial capacity of the output buffer in bytes (only for the accel serializer)"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "info", WrapString("Log level (debug, info, warn, error)"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("accelbuf")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetContract reads the serializer contract from viper
func GetContract() proxy.Contract {
	return proxy.Contract{
		InitialBufferSize: viper.GetInt("buffer-size"),
		StrictMode:        viper.GetBool("strict"),
	}
}

// GetSerializer creates the Message serializer based on configuration
func GetSerializer() (serializer.ISerializer[message.Message], error) {
	return serializer.NewMessageSerializer(viper.GetString("serializer"), GetContract())
}

// InitLogging configures the package loggers from the log-level setting
func InitLogging() (*zap.Logger, error) {
	return logging.InitLoggers(viper.GetString("log-level"))
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
