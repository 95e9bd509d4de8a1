// Package pagesmith is a static-site publishing engine for markdown
// content with front matter. It loads a content tree, resolves each
// document's layout to a user-provided html/template, filters by the
// published flag, builds a tag taxonomy, and emits static HTML plus
// sitemap.xml, feed.xml, and robots.txt.
//
// The build keeps a SQLite manifest inside the output directory so
// unchanged documents are skipped on rebuild, and Serve provides a local
// preview server with live rebuild and draft previews.
//
// Front-matter keys recognized on every document: layout, title,
// permalink, published, comment/comments, tags. Unrecognized keys reach
// layouts as Params.
package pagesmith
