package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/hairizuanbinnoorazman/wise-institute/capture"
	"github.com/hairizuanbinnoorazman/wise-institute/logger"
	"github.com/spf13/cobra"
)

// captureOutput is printed by the capture command.
type captureOutput struct {
	Stage     string               `json:"stage"`
	SaveState string               `json:"save_state"`
	Saved     *capture.SaveResult  `json:"saved,omitempty"`
	Error     string               `json:"error,omitempty"`
	Video     capture.VideoElement `json:"video"`
}

func newCaptureCmd() *cobra.Command {
	var (
		recordID    string
		fallback    string
		save        bool
		retries     int
		htmlOut     string
		ffmpegPath  string
		ffprobePath string
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "capture <video-src>",
		Short: "Capture a video's first frame as its poster and optionally save it as a thumbnail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			level := "warn"
			if flagDebug {
				level = "debug"
			}
			log := logger.NewLogrusLogger(level)

			var saver capture.Saver
			if save {
				session := getConfigSession()
				if session == "" {
					return fmt.Errorf("--save requires an admin session. Run 'wisectl login' first")
				}
				saver = capture.NewHTTPSaver(getConfigURL(), session, 30*time.Second)
			}

			agent := capture.NewAgent(capture.Options{
				Src:            args[0],
				FallbackPoster: fallback,
				RecordID:       recordID,
				Admin:          save,
				OnSaved: func() {
					printMessage("Thumbnail saved to record " + recordID)
				},
			}, capture.NewFFmpegSource(ffmpegPath, ffprobePath), saver, log)

			// A command-line capture has no viewport; the video counts as visible.
			agent.Observe(true)
			if err := agent.Run(ctx); err != nil {
				return err
			}

			for i := 0; i < retries && agent.SaveState() == capture.SaveFailed; i++ {
				time.Sleep(time.Duration(i+1) * time.Second)
				if err := agent.RetrySave(ctx); err != nil {
					break
				}
			}

			if htmlOut != "" {
				html, err := agent.Video().HTML()
				if err != nil {
					return fmt.Errorf("failed to render video element: %w", err)
				}
				if err := os.WriteFile(htmlOut, []byte(html), 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", htmlOut, err)
				}
			}

			out := captureOutput{
				Stage:     agent.Stage().String(),
				SaveState: agent.SaveState().String(),
				Saved:     agent.SaveResult(),
				Video:     agent.Video(),
			}
			if err := agent.Err(); err != nil {
				out.Error = err.Error()
			}

			if flagJSON {
				printJSON(out)
				return nil
			}

			printTable([]string{"STAGE", "SAVE", "POSTER"}, [][]string{{
				out.Stage,
				out.SaveState,
				posterSummary(agent.PosterURL()),
			}})
			if out.Saved != nil {
				printMessage("Thumbnail URL: " + out.Saved.ThumbnailURL)
				printMessage("Asset ID:      " + out.Saved.AssetID)
			}
			if out.Error != "" {
				printMessage("Capture error: " + out.Error)
			}
			if out.SaveState == capture.SaveRejected.String() || out.SaveState == capture.SaveFailed.String() {
				return fmt.Errorf("thumbnail was not saved (%s)", out.SaveState)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&recordID, "record", "", "Media record id to attach the thumbnail to")
	cmd.Flags().StringVar(&fallback, "fallback-poster", "", "Poster used when capture fails; disables saving")
	cmd.Flags().BoolVar(&save, "save", false, "Save the captured frame as a thumbnail (requires login)")
	cmd.Flags().IntVar(&retries, "retries", 0, "Retries for saves that fail in transport")
	cmd.Flags().StringVar(&htmlOut, "html", "", "Write the rendered video element to this file")
	cmd.Flags().StringVar(&ffmpegPath, "ffmpeg", "ffmpeg", "Path to the ffmpeg binary")
	cmd.Flags().StringVar(&ffprobePath, "ffprobe", "ffprobe", "Path to the ffprobe binary")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall capture timeout")
	return cmd
}

func posterSummary(poster string) string {
	switch {
	case poster == "":
		return "(none)"
	case len(poster) > 48:
		return fmt.Sprintf("%s... (%d bytes)", poster[:48], len(poster))
	default:
		return poster
	}
}
