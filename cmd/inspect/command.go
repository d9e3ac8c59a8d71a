package inspect

import (
	"fmt"
	"io"
	"os"

	"github.com/ValentinKolb/accelbuf/cmd/util"
	"github.com/ValentinKolb/accelbuf/lib/message"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// InspectCmd lists the field records of an encoded stream
	InspectCmd = &cobra.Command{
		Use:   "inspect [file]",
		Short: "List the field records of an encoded stream",
		Long: `Read an encoded stream from a file or stdin and print one line per
field record: offset, field index, tag and value.

The stream is walked without a schema, so fixed integers are shown
unsigned and variable floats as raw bits. With --message the stream is
instead decoded as a message using the configured serializer.`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return util.BindCommandFlags(cmd) },
		RunE:    run,
	}
)

func init() {
	key := "hex"
	InspectCmd.Flags().BoolP(key, "x", false, util.WrapString("Treat input as hex encoded (whitespace is ignored)"))
	key = "message"
	InspectCmd.Flags().BoolP(key, "m", false, util.WrapString("Decode the input as a message with the configured serializer"))
}

func run(cmd *cobra.Command, args []string) error {
	if _, err := util.InitLogging(); err != nil {
		return err
	}

	data, err := readInput(args, viper.GetBool("hex"))
	if err != nil {
		return err
	}

	if !viper.GetBool("message") {
		return inspectStream(data, cmd.OutOrStdout())
	}

	s, err := util.GetSerializer()
	if err != nil {
		return err
	}
	var msg message.Message
	if err := s.Deserialize(data, &msg); err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), msg.String())
	return err
}

// readInput reads the file named by args or stdin when args is empty
func readInput(args []string, hexMode bool) ([]byte, error) {
	var data []byte
	var err error

	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", args[0], err)
		}
	} else {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
	}

	if hexMode {
		return decodeHexInput(data)
	}
	return data, nil
}
