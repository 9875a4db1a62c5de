// Package media enumerates transcribable files under directory roots.
package media
