package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"ai-story-api/internal/domain/entity"
)

func init() {
	list := &cobra.Command{
		Use:   "list",
		Short: "List saved stories, newest first",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
	list.Flags().IntP("page", "p", 1, "Page number")
	list.Flags().IntP("limit", "l", 0, "Page size (0 lists everything)")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved story",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}

	RootCmd.AddCommand(list, del)
}

func runList(cmd *cobra.Command, _ []string) error {
	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")

	lib, cleanup, err := openLibrary(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var (
		stories []*entity.Story
		total   int64
	)
	if limit > 0 {
		result, err := lib.Service.List(cmd.Context(), page, limit)
		if err != nil {
			return err
		}
		stories, total = result.Items, result.Total
	} else {
		stories, err = lib.Service.GetAll(cmd.Context())
		if err != nil {
			return err
		}
		total = int64(len(stories))
	}

	out := cmd.OutOrStdout()
	if formatFlag == "json" {
		return writeJSON(out, map[string]any{"stories": stories, "total": total})
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tTITLE")
	for _, s := range stories {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, s.CreatedAt.Local().Format(time.DateTime), s.Title)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d of %d stories\n", len(stories), total)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	lib, cleanup, err := openLibrary(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	deleted, err := lib.Service.Delete(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("story %s not found", args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
	return nil
}
