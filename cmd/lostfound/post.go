package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/lostfound/internal/app"
	"github.com/five82/lostfound/internal/form"
	"github.com/five82/lostfound/internal/imaging"
	"github.com/five82/lostfound/internal/lostfound"
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Report a lost or found item",
	Long: `Report a lost or found item.

Title, description, location and date are required. The date defaults to
today. An optional --image is downscaled and sent inline as JPEG.`,
	Args: cobra.NoArgs,
	RunE: runPost,
}

var (
	postTitle       string
	postDescription string
	postLocation    string
	postDate        string
	postStatus      string
	postImage       string
)

func init() {
	postCmd.Flags().StringVarP(&postTitle, "title", "t", "", "Short title")
	postCmd.Flags().StringVarP(&postDescription, "description", "d", "", "Description")
	postCmd.Flags().StringVarP(&postLocation, "location", "l", "", "Where it was lost or found")
	postCmd.Flags().StringVar(&postDate, "date", "", "Date as YYYY-MM-DD (default today)")
	postCmd.Flags().StringVarP(&postStatus, "status", "s", string(lostfound.StatusLost), "Status (lost, found, claimed)")
	postCmd.Flags().StringVar(&postImage, "image", "", "Path to a JPEG or PNG to attach")
	rootCmd.AddCommand(postCmd)
}

func runPost(cmd *cobra.Command, _ []string) error {
	draft, err := buildDraft(time.Now(), cmd.Flags().Changed("date"))
	if err != nil {
		return &exitError{code: 2, err: err}
	}
	if errs := form.Validate(draft); !errs.Valid() {
		printFieldErrors(os.Stderr, errs)
		return &exitError{code: 2, err: errors.New("report is incomplete")}
	}

	if strings.TrimSpace(postImage) != "" {
		asset, err := imaging.Pick(postImage)
		if err != nil {
			return err
		}
		draft.Image = asset.DataURI()
	}

	cfg, err := loadConsole()
	if err != nil {
		return err
	}
	client, err := app.NewClient(cfg)
	if err != nil {
		return err
	}

	item, err := client.CreateItem(cmd.Context(), form.Normalize(draft))
	if err != nil {
		var serverErr *lostfound.ServerError
		if errors.As(err, &serverErr) && len(serverErr.Fields) > 0 {
			printFieldErrors(os.Stderr, form.Errors(serverErr.Fields))
		}
		return fmt.Errorf("create item: %w", err)
	}
	fmt.Printf("Reported %s: %s\n", item.ID, item.Title)
	return nil
}

// buildDraft assembles the draft from flags. The date falls back to today
// unless it was given explicitly, so an explicit blank date still fails
// validation.
func buildDraft(now time.Time, dateSet bool) (lostfound.Draft, error) {
	status := lostfound.Status(strings.ToLower(strings.TrimSpace(postStatus)))
	if status == "" {
		status = lostfound.StatusLost
	}
	if !status.Valid() {
		return lostfound.Draft{}, fmt.Errorf("unknown status %q (want lost, found or claimed)", postStatus)
	}
	draft := form.NewDraft(now)
	draft.Title = postTitle
	draft.Description = postDescription
	draft.Location = postLocation
	draft.Status = status
	if dateSet {
		draft.Date = postDate
	}
	return draft, nil
}

func printFieldErrors(w io.Writer, errs form.Errors) {
	for _, field := range form.Fields {
		if msg, ok := errs[field]; ok {
			fmt.Fprintf(w, "  %s: %s\n", field, msg)
		}
	}
	for _, field := range []string{form.FieldStatus, form.FieldImage} {
		if msg, ok := errs[field]; ok {
			fmt.Fprintf(w, "  %s: %s\n", field, msg)
		}
	}
}
