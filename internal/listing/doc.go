// Package listing implements the searchable, paginated collection shared by the
// blog and careers pages.
//
// A Collection owns three pieces of state: the fetch state of the last load,
// the search query and the current page. Every mutation returns a View, a
// snapshot that a presenter can render without further calls:
//
//	posts := listing.New(source, listing.Config[entity.Post]{Fields: PostFields})
//	view := posts.Load(ctx)          // Loading -> Populated | EmptyNoQuery | Error
//	view = posts.SetQuery("cloud")   // filters, page resets to 1
//	view = posts.GoToPage(2)         // ScrollToTop is set, nothing is fetched
//
// Loads are ordered by ticket. When a load is superseded by a newer Begin,
// its result is discarded so a slow response can never overwrite a fresh one.
package listing
