// Package fetchcache downloads reference datasets over HTTP and caches
// them on disk, coordinating concurrent fetchers through a file lock.
package fetchcache
