package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/atinyakov/puzzlenotes/internal/client/api"
	"github.com/atinyakov/puzzlenotes/internal/client/router"
	"github.com/atinyakov/puzzlenotes/internal/models"
	"github.com/spf13/cobra"
)

func pageFlags(cmd *cobra.Command, q *api.PageQuery) {
	cmd.Flags().IntVar(&q.Page, "page", 0, "page number, from 1")
	cmd.Flags().IntVar(&q.PageSize, "page-size", 0, "records per page")
}

func (c *cli) notesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage your notes",
	}

	var (
		q      api.NoteQuery
		status string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter(router.HomePath); err != nil {
				return err
			}
			q.Status = models.NoteStatus(status)
			if q.Status == "all" {
				q.Status = ""
			}
			if _, err := c.app.Notes.Fetch(cmd.Context(), q); err != nil {
				return err
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tUPDATED\tTITLE")
			for _, n := range c.app.Notes.List() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.ID, n.Status, n.UpdatedAt, n.Title)
			}
			fmt.Fprintf(tw, "\ntotal: %d\n", c.app.Notes.Total())
			return tw.Flush()
		},
	}
	pageFlags(list, &q.PageQuery)
	list.Flags().StringVar(&q.Search, "search", "", "title keyword")
	list.Flags().StringVar(&status, "status", "", "private, public, draft or all")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter(router.HomePath); err != nil {
				return err
			}
			n, err := c.app.Notes.FetchByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.printJSON(n)
		},
	}

	var (
		title, file, newStatus string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a note",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter(router.HomePath); err != nil {
				return err
			}
			if title == "" {
				title = c.ask.ask("Title", "Untitled")
			}
			content, err := c.ask.content(file)
			if err != nil {
				return err
			}
			n, err := c.app.Notes.Add(cmd.Context(), models.CreateNoteInput{
				Title:   title,
				Content: content,
				Status:  models.NoteStatus(newStatus),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "created note %s\n", n.ID)
			return nil
		},
	}
	create.Flags().StringVarP(&title, "title", "t", "", "note title")
	create.Flags().StringVarP(&file, "file", "f", "", "read content from a file, - for stdin")
	create.Flags().StringVar(&newStatus, "status", "", "private or public")

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter(router.HomePath); err != nil {
				return err
			}
			var in models.UpdateNoteInput
			if cmd.Flags().Changed("title") {
				in.Title = &title
			}
			if cmd.Flags().Changed("file") {
				content, err := c.ask.content(file)
				if err != nil {
					return err
				}
				in.Content = &content
			}
			if cmd.Flags().Changed("status") {
				s := models.NoteStatus(newStatus)
				in.Status = &s
			}
			n, err := c.app.Notes.Update(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			return c.printJSON(n)
		},
	}
	update.Flags().StringVarP(&title, "title", "t", "", "new title")
	update.Flags().StringVarP(&file, "file", "f", "", "read new content from a file, - for stdin")
	update.Flags().StringVar(&newStatus, "status", "", "new status")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter(router.HomePath); err != nil {
				return err
			}
			if err := c.app.Notes.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "deleted note %s\n", args[0])
			return nil
		},
	}

	publish := &cobra.Command{
		Use:   "publish <id>",
		Short: "Publish a note to the discover feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter(router.HomePath); err != nil {
				return err
			}
			n, err := c.app.Notes.Publish(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "note %s is %s\n", n.ID, n.Status)
			return nil
		},
	}

	draft := &cobra.Command{
		Use:   "draft <id>",
		Short: "Move a note back to drafts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter(router.HomePath); err != nil {
				return err
			}
			n, err := c.app.Notes.SaveAsDraft(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "note %s is %s\n", n.ID, n.Status)
			return nil
		},
	}

	var saveFile string
	autosave := &cobra.Command{
		Use:   "autosave <id>",
		Short: "Save note content without changing its status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter(router.HomePath); err != nil {
				return err
			}
			content, err := c.ask.content(saveFile)
			if err != nil {
				return err
			}
			if _, err := c.app.Notes.AutoSave(cmd.Context(), args[0], content); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "saved")
			return nil
		},
	}
	autosave.Flags().StringVarP(&saveFile, "file", "f", "-", "read content from a file, - for stdin")

	cmd.AddCommand(list, get, create, update, del, publish, draft, autosave)
	return cmd
}

func (c *cli) discoverCmd() *cobra.Command {
	var q api.PageQuery
	cmd := &cobra.Command{
		Use:   "discover [id]",
		Short: "Browse public notes, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				n, err := c.app.API.DiscoverNote(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return c.printJSON(n)
			}
			page, err := c.app.API.Discover(cmd.Context(), q)
			if err != nil {
				return err
			}
			return c.printPublic(page)
		},
	}
	pageFlags(cmd, &q)
	return cmd
}

func (c *cli) userNotesCmd() *cobra.Command {
	var q api.PageQuery
	cmd := &cobra.Command{
		Use:   "user-notes <user-id>",
		Short: "List the public notes of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := c.app.API.UserNotes(cmd.Context(), args[0], q)
			if err != nil {
				return err
			}
			return c.printPublic(page)
		},
	}
	pageFlags(cmd, &q)
	return cmd
}

func (c *cli) printPublic(page models.Page[models.PublicNoteItem]) error {
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tAUTHOR\tPUBLISHED\tTITLE")
	for _, n := range page.List {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.ID, n.Author.Nickname, n.PublishedAt, n.Title)
	}
	fmt.Fprintf(tw, "\ntotal: %d\n", page.Total)
	return tw.Flush()
}
