// Command logpage serves paged views and keyword searches over large build
// logs, over HTTP, on the command line, or in an interactive terminal pager.
package main
