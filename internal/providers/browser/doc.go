/*
Package browser provides the mock web browser application.

The browser never fetches anything. It normalizes address bar input into an
http(s) URL for the frontend to display and keeps a back/forward history per
window instance.

# Address bar rules

Input that already starts with http:// or https:// is used as is. Otherwise
the input is tried as a host name under https://, and anything that does not
parse as one becomes a web search.
*/
package browser
