// Package packer bundles the discs of one title into a single 7z archive.
//
// A plan pass pairs every cue with its track file, clusters the pairs by
// grouping key, and names one archive per group after the cleaned title. An
// apply pass hands each group's relative file list to the archiver with the
// work root as the working directory, so archives store bare filenames.
// Existing archives are skipped unless overwrite is configured, in which
// case the old archive is deleted before the new one is built.
package packer
