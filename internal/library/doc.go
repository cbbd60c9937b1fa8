// Package library loads the albums a user owns, grouped by artist, from one of several sources.
//
// [Load] chooses the source from the path:
//   - directory : every *.mp3 file below it is read with id3v2 ([LoadTags])
//   - *.xml : an iTunes "Music Library.xml" plist export, music tracks only ([LoadITunes])
//   - *.csv : artist,album rows with an optional header ([LoadCSV])
//   - *.db, *.blb, *.sqlite : a beets library database opened read-only ([LoadBeets])
//
// Every loader produces a [models.Library]; blank artists and albums are dropped.
package library
