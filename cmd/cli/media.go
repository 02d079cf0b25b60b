package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newMediaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Browse and create media records",
	}

	cmd.AddCommand(newMediaListCmd())
	cmd.AddCommand(newMediaGetCmd())
	cmd.AddCommand(newMediaCreateCmd())
	return cmd
}

func newMediaListCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List media records",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if limit > 0 {
				query.Set("limit", strconv.Itoa(limit))
			}
			if offset > 0 {
				query.Set("offset", strconv.Itoa(offset))
			}

			body, err := getPublicClient().Get("/api/media", query)
			if err != nil {
				return err
			}

			if flagJSON {
				var raw json.RawMessage
				json.Unmarshal(body, &raw)
				printJSON(raw)
				return nil
			}

			var resp PaginatedResponse[MediaResponse]
			if err := json.Unmarshal(body, &resp); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			rows := make([][]string, 0, len(resp.Items))
			for _, m := range resp.Items {
				rows = append(rows, []string{
					m.ID,
					m.Title,
					strconv.Itoa(len(m.ThumbnailURLs)),
					publishedLabel(m),
				})
			}
			printTable([]string{"ID", "TITLE", "THUMBNAILS", "PUBLISHED"}, rows)
			printMessage(fmt.Sprintf("\nShowing %d of %d records", len(resp.Items), resp.Total))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of records")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of records to skip")
	return cmd
}

func newMediaGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a media record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := getPublicClient().Get("/api/media/"+url.PathEscape(args[0]), nil)
			if err != nil {
				return err
			}

			if flagJSON {
				var raw json.RawMessage
				json.Unmarshal(body, &raw)
				printJSON(raw)
				return nil
			}

			var m MediaResponse
			if err := json.Unmarshal(body, &m); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			printMediaRecord(m)
			return nil
		},
	}
}

func newMediaCreateCmd() *cobra.Command {
	var id, title string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a media record",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			resp, err := client.Post("/api/admin/media", map[string]string{"id": id, "title": title})
			if err != nil {
				return err
			}

			if flagJSON {
				var raw json.RawMessage
				json.Unmarshal(resp.Body(), &raw)
				printJSON(raw)
				return nil
			}

			var m MediaResponse
			if err := json.Unmarshal(resp.Body(), &m); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			printMessage("Created media record " + m.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Record id (generated when empty)")
	cmd.Flags().StringVar(&title, "title", "", "Record title")
	cmd.MarkFlagRequired("title")
	return cmd
}

func publishedLabel(m MediaResponse) string {
	if m.PublishedVersion > 0 && m.PublishedVersion == m.Version {
		return "yes"
	}
	return "no"
}

func printMediaRecord(m MediaResponse) {
	thumbs := "(none)"
	if len(m.ThumbnailURLs) > 0 {
		thumbs = strings.Join(m.ThumbnailURLs, ", ")
	}
	printFields([][2]string{
		{"ID", m.ID},
		{"Type", m.ContentType},
		{"Title", m.Title},
		{"Version", fmt.Sprintf("%d (published: %s)", m.Version, publishedLabel(m))},
		{"Thumbnails", thumbs},
	})
}
