package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"soundrip/internal/media/ffprobe"
)

func newProbeCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe FILE",
		Short: "Inspect a media file's streams",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			result, err := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Container: %s\n", result.Format.FormatName)
			if duration := result.DurationSeconds(); duration > 0 {
				fmt.Fprintf(out, "Duration: %.1fs\n", duration)
			}
			fmt.Fprintf(out, "Audio streams: %d\n", result.AudioStreamCount())

			rows := make([][]string, 0, len(result.Streams))
			for _, stream := range result.Streams {
				rows = append(rows, []string{
					strconv.Itoa(stream.Index),
					stream.CodecType,
					stream.CodecName,
					stream.SampleRate,
					strconv.Itoa(stream.Channels),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Type", "Codec", "Sample Rate", "Channels"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight},
			))

			if !result.HasAudio() {
				return fmt.Errorf("%s has no audio track", args[0])
			}
			return nil
		},
	}
}
