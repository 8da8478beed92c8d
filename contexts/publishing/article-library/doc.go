// Package articlelibrary implements the article publishing context: authors,
// tags and articles, the public read side that only shows published articles,
// and the staff admin surface.
//
// Article writes append outbox events in the same transaction; the worker
// process announces newly visible articles and relays the outbox to the
// event bus.
package articlelibrary
