// SPDX-License-Identifier: EPL-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/aacpbx"
)

func decodeCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "decode INPUT.aac OUTPUT.wav",
		Short: "Decode an ADTS stream to a WAV file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			out, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer out.Close()

			frames, err := aacpbx.DecodeToWAV(out, in, app.OpenDecoder)
			if err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			app.print(cmd, "%s: %d frames", args[1], frames)
			return out.Close()
		},
	}
}
