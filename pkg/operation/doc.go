/*
Package operation copies files, frame sequences and directory trees.

	+-----------+      +-----------+      +-----------+
	|  Process  | ---> | sequence  | ---> |  fileops  |
	| (Copier)  |      | (members) |      | (copy/rm) |
	+-----+-----+      +-----------+      +-----------+
	      |
	+-----+-----+
	|  Report   |
	+-----------+

🎯 Purpose:
- Copy one file, or every member of its frame sequence, into a directory
- Copy ".tx" sidecars with or instead of the originals
- Replace a directory with a copy of another one

🔄 Flow:
 1. Check preconditions (target is a directory, source exists, not the same path)
 2. Directory source: remove the target, copy the tree
 3. File source: resolve members, copy originals and sidecars
 4. Collect a FileResult per file into a Report

⚡ Failure handling:
A failed precondition or file makes the report unsuccessful without
returning an error. FilePolicy and TreePolicy pick between BestEffort and
FailFast. Errors are reserved for sequences that cannot be listed or parsed
and for a cancelled context.

🔍 Example:

	opts := operation.DefaultOptions()
	opts.IncludeTx = true
	ok, err := operation.NewCopier(opts, &logger).ProcessPaths(ctx, "/shots/tex.1001.png", "/publish")
*/
package operation
