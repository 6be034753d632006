package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/atinyakov/puzzlenotes/internal/client/api"
	"github.com/atinyakov/puzzlenotes/internal/models"
	"github.com/spf13/cobra"
)

func (c *cli) likeCmd() *cobra.Command {
	var show bool
	cmd := &cobra.Command{
		Use:   "like <note-id>",
		Short: "Like or unlike a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				st  models.LikeState
				err error
			)
			if show {
				st, err = c.app.API.Likes(cmd.Context(), args[0])
			} else {
				st, err = c.app.API.ToggleLike(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "liked: %t, likes: %d\n", st.IsLiked, st.LikeCount)
			return nil
		},
	}
	cmd.Flags().BoolVar(&show, "show", false, "show the like state without toggling")
	return cmd
}

func (c *cli) favoriteCmd() *cobra.Command {
	var show bool
	cmd := &cobra.Command{
		Use:   "favorite <note-id>",
		Short: "Add or remove a note from favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				st  models.FavoriteState
				err error
			)
			if show {
				st, err = c.app.API.Favorites(cmd.Context(), args[0])
			} else {
				st, err = c.app.API.ToggleFavorite(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "favorited: %t, favorites: %d\n", st.IsFavorited, st.FavoriteCount)
			return nil
		},
	}
	cmd.Flags().BoolVar(&show, "show", false, "show the favorite state without toggling")
	return cmd
}

func (c *cli) favoritesCmd() *cobra.Command {
	var q api.PageQuery
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "List your favorite notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := c.app.API.UserFavorites(cmd.Context(), q)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tAUTHOR\tFAVORITED\tTITLE")
			for _, f := range page.List {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.ID, f.Author.Nickname, f.FavoritedAt, f.Title)
			}
			fmt.Fprintf(tw, "\ntotal: %d\n", page.Total)
			return tw.Flush()
		},
	}
	pageFlags(cmd, &q)
	return cmd
}

func (c *cli) commentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments <note-id>",
		Short: "Show the comments of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := c.app.API.Comments(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, cm := range list.List {
				c.printComment(cm, 0)
			}
			fmt.Fprintf(c.out, "total: %d\n", list.Total)
			return nil
		},
	}

	var replyTo int64
	add := &cobra.Command{
		Use:   "add <note-id> <text>",
		Short: "Comment on a note",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := models.CreateCommentInput{Content: strings.Join(args[1:], " ")}
			if replyTo > 0 {
				in.ParentID = &replyTo
			}
			cm, err := c.app.API.CreateComment(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "created comment %s\n", cm.ID)
			return nil
		},
	}
	add.Flags().Int64Var(&replyTo, "reply-to", 0, "id of the comment to reply to")

	del := &cobra.Command{
		Use:   "delete <comment-id>",
		Short: "Delete one of your comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.API.DeleteComment(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "deleted")
			return nil
		},
	}

	cmd.AddCommand(add, del)
	return cmd
}

func (c *cli) printComment(cm models.Comment, depth int) {
	fmt.Fprintf(c.out, "%s[%s] %s: %s\n", strings.Repeat("  ", depth), cm.ID, cm.Author.Nickname, cm.Content)
	for _, r := range cm.Replies {
		c.printComment(r, depth+1)
	}
}

func (c *cli) memoriesCmd() *cobra.Command {
	var q api.PageQuery
	cmd := &cobra.Command{
		Use:   "memories",
		Short: "Browse memory moments",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := c.app.API.Memories(cmd.Context(), q)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tAUTHOR\tLIKES\tIMAGE\tDESCRIPTION")
			for _, m := range page.List {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", m.ID, m.Author.Nickname, m.LikeCount,
					c.app.Config.FullURL(m.ImageURL), m.Description)
			}
			fmt.Fprintf(tw, "\ntotal: %d\n", page.Total)
			return tw.Flush()
		},
	}
	pageFlags(cmd, &q)

	var description string
	share := &cobra.Command{
		Use:   "share <image>",
		Short: "Upload an image and share it as a memory moment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			img, err := c.app.API.UploadMemoryImage(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			m, err := c.app.API.CreateMemory(cmd.Context(), models.CreateMemoryInput{
				ImageURL:    img.URL,
				Description: description,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "shared memory %s\n", m.ID)
			return nil
		},
	}
	share.Flags().StringVarP(&description, "description", "d", "", "short description")

	like := &cobra.Command{
		Use:   "like <memory-id>",
		Short: "Like or unlike a memory moment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.app.API.ToggleMemoryLike(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "liked: %t, likes: %d\n", st.IsLiked, st.LikeCount)
			return nil
		},
	}

	cmd.AddCommand(share, like)
	return cmd
}

func (c *cli) worksCmd() *cobra.Command {
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "works",
		Short: "List your image works",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter("/user/works"); err != nil {
				return err
			}
			if _, err := c.app.Works.Fetch(cmd.Context(), page, pageSize); err != nil {
				return err
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tCREATED\tTITLE")
			for _, w := range c.app.Works.List() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", w.ID, w.Status, w.CreatedAt, w.Title)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number, from 1")
	cmd.Flags().IntVar(&pageSize, "page-size", 10, "records per page")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a work",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter("/user/works"); err != nil {
				return err
			}
			w, err := c.app.API.Work(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.printJSON(w)
		},
	}

	var in models.Work
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a work from a prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter("/user/works"); err != nil {
				return err
			}
			if in.Prompt == "" {
				in.Prompt = c.ask.ask("Prompt", "")
			}
			w, err := c.app.Works.Add(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "created work %s (%s)\n", w.ID, w.Status)
			return nil
		},
	}
	create.Flags().StringVarP(&in.Title, "title", "t", "", "work title")
	create.Flags().StringVar(&in.Prompt, "prompt", "", "generation prompt")
	create.Flags().StringVar(&in.NegativePrompt, "negative-prompt", "", "what to avoid")
	create.Flags().StringVar(&in.Model, "model", "", "generation model")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a work",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter("/user/works"); err != nil {
				return err
			}
			if err := c.app.Works.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "deleted work %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(get, create, del)
	return cmd
}

func (c *cli) consumptionCmd() *cobra.Command {
	var q api.HistoryQuery
	cmd := &cobra.Command{
		Use:   "consumption",
		Short: "Show your consumption history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter("/user/consumption"); err != nil {
				return err
			}
			if _, err := c.app.Consumption.FetchHistory(cmd.Context(), q); err != nil {
				return err
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tTYPE\tAMOUNT\tSTATUS\tDESCRIPTION")
			for _, r := range c.app.Consumption.Records() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.CreatedAt, r.Type,
					strconv.FormatFloat(r.Amount, 'f', 2, 64), r.Status, r.Description)
			}
			fmt.Fprintf(tw, "\ntotal: %d\n", c.app.Consumption.Total())
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&q.Page, "page", 1, "page number, from 1")
	cmd.Flags().IntVar(&q.PageSize, "page-size", 10, "records per page")
	cmd.Flags().StringVar(&q.StartDate, "start", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&q.EndDate, "end", "", "last day, YYYY-MM-DD")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show spending statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter("/user/consumption"); err != nil {
				return err
			}
			s, err := c.app.API.ConsumptionStats(cmd.Context())
			if err != nil {
				return err
			}
			return c.printJSON(s)
		},
	}

	cmd.AddCommand(stats)
	return cmd
}
