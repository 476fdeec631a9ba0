package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/bekizod/Blog-Post/internal/api"
	"github.com/bekizod/Blog-Post/internal/store"

	"github.com/dustin/go-humanize"
)

const titleWidth = 48

func renderProfile(w io.Writer, p *api.Profile) {
	if p == nil {
		fmt.Fprintln(w, "No profile loaded")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", p.ID)
	fmt.Fprintf(tw, "Username:\t%s\n", p.UserName)
	fmt.Fprintf(tw, "Name:\t%s\n", strings.TrimSpace(p.FirstName+" "+p.LastName))
	fmt.Fprintf(tw, "Email:\t%s\n", p.Email)
	tw.Flush()
}

func renderPostList(w io.Writer, st store.PostState) {
	posts := st.Posts()
	if len(posts) == 0 {
		if st.SearchQuery != "" {
			fmt.Fprintf(w, "No posts match %q\n", st.SearchQuery)
		} else {
			fmt.Fprintln(w, "No posts yet")
		}
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tLIKES\tCOMMENTS\tPOSTED")
	for _, p := range posts {
		likes := humanize.Comma(int64(p.LikesCount))
		if p.IsLiked {
			likes += " ♥"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			p.ID,
			truncate(p.Title, titleWidth),
			p.Author.Username,
			likes,
			humanize.Comma(int64(p.CommentCount)),
			humanize.Time(p.CreatedAt),
		)
	}
	tw.Flush()

	pg := st.PostsPagination
	fmt.Fprintf(w, "\nPage %d of %d (%s)\n", pg.Page, max(pg.TotalPages, 1), plural(pg.Total, "post"))
}

func renderPost(w io.Writer, p api.Post, comments []api.Comment, pg api.Pagination) {
	fmt.Fprintln(w, p.Title)
	fmt.Fprintf(w, "by %s, %s", p.Author.Username, humanize.Time(p.CreatedAt))
	if p.UpdatedAt.After(p.CreatedAt) {
		fmt.Fprintf(w, " (edited %s)", humanize.Time(p.UpdatedAt))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, p.Content)
	fmt.Fprintln(w)

	liked := ""
	if p.IsLiked {
		liked = ", liked by you"
	}
	fmt.Fprintf(w, "%s%s, %s\n", plural(p.LikesCount, "like"), liked, plural(p.CommentCount, "comment"))

	if len(comments) == 0 {
		return
	}
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range comments {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", c.Author.Username, humanize.Time(c.CreatedAt), c.Content)
	}
	tw.Flush()
	if pg.TotalPages > 1 {
		fmt.Fprintf(w, "\nComments page %d of %d\n", pg.Page, pg.TotalPages)
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}
