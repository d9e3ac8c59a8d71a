package encode

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/ValentinKolb/accelbuf/cmd/util"
	"github.com/ValentinKolb/accelbuf/lib/message"
	"github.com/ValentinKolb/accelbuf/lib/serializer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// EncodeCmd encodes a message built from flags
	EncodeCmd = &cobra.Command{
		Use:   "encode",
		Short: "Encode a message given by flags",
		Long: `Build a message from the given flags, encode it with the configured
serializer and print the result as hex (or raw bytes with --raw).

The output of this command can be fed back into "accelbuf inspect --hex".`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return util.BindCommandFlags(cmd) },
		RunE:    run,
	}
)

func init() {
	key := "type"
	EncodeCmd.Flags().StringP(key, "t", "set", util.WrapString("Message type (e.g. set, setE, get, delete, error)"))
	key = "key"
	EncodeCmd.Flags().StringP(key, "k", "", util.WrapString("Key of the message"))
	key = "value"
	EncodeCmd.Flags().StringP(key, "v", "", util.WrapString("Value of the message (omitted if empty)"))
	key = "expire"
	EncodeCmd.Flags().Uint64(key, 0, util.WrapString("Expire in field of the message"))
	key = "delete"
	EncodeCmd.Flags().Uint64(key, 0, util.WrapString("Delete in field of the message"))
	key = "ok"
	EncodeCmd.Flags().Bool(key, false, util.WrapString("Ok flag of the message"))
	key = "err"
	EncodeCmd.Flags().String(key, "", util.WrapString("Error text of the message"))
	key = "meta"
	EncodeCmd.Flags().String(key, "", util.WrapString("Meta information of the message (omitted if empty)"))
	key = "raw"
	EncodeCmd.Flags().Bool(key, false, util.WrapString("Write the raw bytes instead of hex"))
}

func run(cmd *cobra.Command, _ []string) error {
	if _, err := util.InitLogging(); err != nil {
		return err
	}

	msg, err := messageFromConfig()
	if err != nil {
		return err
	}

	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	return encodeMessage(s, msg, cmd.OutOrStdout(), viper.GetBool("raw"))
}

// messageFromConfig builds a message from the bound flags
func messageFromConfig() (message.Message, error) {
	msgType, err := message.ParseMessageType(viper.GetString("type"))
	if err != nil {
		return message.Message{}, err
	}

	msg := message.Message{
		MsgType:  msgType,
		Key:      viper.GetString("key"),
		ExpireIn: viper.GetUint64("expire"),
		DeleteIn: viper.GetUint64("delete"),
		Ok:       viper.GetBool("ok"),
		Err:      viper.GetString("err"),
	}
	if v := viper.GetString("value"); v != "" {
		msg.Value = []byte(v)
	}
	if m := viper.GetString("meta"); m != "" {
		msg.Meta = []byte(m)
	}
	return msg, nil
}

// encodeMessage serializes msg and writes it to w as hex or raw bytes
func encodeMessage(s serializer.ISerializer[message.Message], msg message.Message, w io.Writer, raw bool) error {
	data, err := s.Serialize(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message with %s: %w", s.Name(), err)
	}
	if raw {
		_, err = w.Write(data)
		return err
	}
	_, err = fmt.Fprintln(w, hex.EncodeToString(data))
	return err
}
