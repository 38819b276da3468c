package cli

import (
	"bufio"
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/AshimStha/FloraBase-Frontend/internal/apperror"
	"github.com/AshimStha/FloraBase-Frontend/internal/listquery"
	"github.com/AshimStha/FloraBase-Frontend/internal/model"
	"github.com/AshimStha/FloraBase-Frontend/internal/nav"
	"github.com/AshimStha/FloraBase-Frontend/internal/resource"
)

func (a *App) flowers(ctx context.Context, args []string) error {
	fs := a.flags("flowers")
	page := fs.Int("page", 1, "page number")
	query := fs.String("q", "", "search text")
	sortBy := fs.String("sort", "", "sort label: "+strings.Join(listquery.SortOptions, ", "))
	browse := fs.Bool("browse", false, "interactive: read commands from stdin")
	if err := parse(fs, args); err != nil {
		return err
	}

	list := a.catalog.List()
	defer list.Close()
	if *sortBy != "" {
		if err := list.SetSortOption(*sortBy); err != nil {
			a.printf("unknown sort %q, want one of: %s\n", *sortBy, strings.Join(listquery.SortOptions, ", "))
			return ErrUsage
		}
	}

	if *browse {
		return a.browse(list)
	}

	switch {
	case *query != "":
		list.SetSearchQuery(*query)
		list.SubmitSearch()
	case *page <= 1:
		list.Start()
	}
	if *page > 1 {
		list.SetPage(*page)
	}
	list.Wait()

	st := list.State()
	if st.Err != nil {
		return a.failed(apperror.UserMessage(st.Err, "Could not load flowers."), nav.None)
	}
	a.renderFlowers(st)
	return nil
}

const browseHelp = `commands: n(ext) | p(rev) | page N | /TEXT (type) | search TEXT | sort LABEL | q(uit)`

// browse drives the list from stdin. "/TEXT" behaves like typing in the
// search box: rapid lines within the debounce window result in one fetch.
func (a *App) browse(list *listquery.Controller[model.ExternalFlower]) error {
	// Render only when a fetch settles, not on every keystroke.
	var (
		mu      sync.Mutex
		loading bool
	)
	list.OnChange(func(st listquery.State[model.ExternalFlower]) {
		mu.Lock()
		settled := loading && !st.Loading
		loading = st.Loading
		mu.Unlock()
		if !settled {
			return
		}
		if st.Err != nil {
			a.printf("error: %s\n", apperror.UserMessage(st.Err, "Could not load flowers."))
			return
		}
		a.renderFlowers(st)
	})
	a.printf("%s\n", browseHelp)
	list.Start()

	sc := bufio.NewScanner(a.in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		cmd, arg, _ := strings.Cut(line, " ")
		switch {
		case line == "":
		case strings.HasPrefix(line, "/"):
			list.SetSearchQuery(strings.TrimPrefix(line, "/"))
		case cmd == "n" || cmd == "next":
			list.NextPage()
		case cmd == "p" || cmd == "prev":
			if !list.PrevPage() {
				a.printf("already on the first page\n")
			}
		case cmd == "page":
			n, err := strconv.Atoi(arg)
			if err != nil {
				a.printf("page needs a number\n")
				continue
			}
			list.SetPage(n)
		case cmd == "search":
			list.SetSearchQuery(arg)
			list.SubmitSearch()
		case cmd == "sort":
			if err := list.SetSortOption(arg); err != nil {
				a.printf("unknown sort %q\n", arg)
				continue
			}
			a.printf("sort: %s\n", arg)
		case cmd == "q" || cmd == "quit":
			list.Wait()
			return nil
		default:
			a.printf("%s\n", browseHelp)
		}
	}
	list.Wait()
	return sc.Err()
}

func (a *App) renderFlowers(st listquery.State[model.ExternalFlower]) {
	header := "Page " + strconv.Itoa(st.Page)
	if st.SearchQuery != "" {
		header += ` for "` + st.SearchQuery + `"`
	}
	if st.SortOption != listquery.DefaultSort {
		header += " (" + st.SortOption + ")"
	}
	a.printf("%s\n", header)
	if len(st.Items) == 0 {
		a.printf("No flowers found.\n")
		return
	}
	rows := make([][]string, 0, len(st.Items))
	for _, f := range st.Items {
		rows = append(rows, []string{strconv.Itoa(f.ID), f.DisplayName(), f.ScientificName, f.Family.Name})
	}
	a.table([]string{"ID", "NAME", "SCIENTIFIC NAME", "FAMILY"}, rows)
}

func (a *App) flower(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.printf("usage: florabase flower ID\n")
		return ErrUsage
	}
	snap := a.catalog.Flower(args[0]).Load(ctx)
	if snap.Status != resource.Loaded {
		return a.failed(snap.Message, snap.Redirect)
	}
	f := snap.Value
	synonyms := make([]string, 0, len(f.Synonyms))
	for _, s := range f.Synonyms {
		synonyms = append(synonyms, s.Name)
	}
	year := ""
	if f.Year > 0 {
		year = strconv.Itoa(f.Year)
	}
	a.details(
		"Name", f.DisplayName(),
		"Scientific name", f.ScientificName,
		"Family", f.Family.Name,
		"Genus", f.Genus.Name,
		"Year", year,
		"Bibliography", f.Bibliography,
		"Observations", f.Observations,
		"Synonyms", strings.Join(synonyms, ", "),
		"Vegetable", yesNo(f.Vegetable),
		"Edible", yesNo(f.Edible),
		"Image", f.ImageURL,
	)
	return nil
}
