// Package content indexes the Markdown documents under a site's content
// directory and uses that index to expand autogenerated sidebar groups and to
// verify that every slug and asset the site configuration references exists.
package content
