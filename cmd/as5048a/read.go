package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-as5048a/as5048a"
)

func newReadCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "read",
		Short: "Read diagnostics, gain, magnitude and angle once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, f)
			if err != nil {
				return err
			}
			defer s.close()

			sample, err := s.dev.Sample()
			if err != nil {
				return err
			}
			printSample(cmd.OutOrStdout(), sample)
			return nil
		},
	}
}

func printSample(w io.Writer, s as5048a.Sample) {
	fmt.Fprintf(w, "diag:      %04b (%s)\n", uint8(s.Diagnostics), s.Diagnostics)
	fmt.Fprintf(w, "gain:      %d\n", s.Gain)
	fmt.Fprintf(w, "magnitude: %d\n", s.Magnitude)
	fmt.Fprintf(w, "angle:     %d (%.2f°)\n", s.Angle, s.Degrees())
}
