/*
Package status compares a source and a target path without modifying either.

	+--------+   kind / same path   +--------+
	| source | -------------------> | target |
	+--------+    stat fields       +--------+
	              dir sizes
	                  |
	           +------+------+
	           |   Result    |
	           | (Code 1..7) |
	           +-------------+

🎯 Purpose:
- Classify two paths as in sync, out of sync, missing, mismatched or identical
- Compare selected stat fields with human readable labels
- Tell which path is more recent by a timestamp field
- Measure directory sizes recursively

📝 Codes:
 1. In sync
 2. Out of sync
 3. Both paths do not exist
 4. Source path does not exist
 5. Target path does not exist
 6. Different kind of paths
 7. Source and Target are exactly the same path

⚙️ Defaults:
Owner ids, access and change times, inode and device are ignored unless
CompareOptions.IgnoreStats says otherwise. These change on every copy even
when the content did not.

🔍 Example:

	r := status.NewReporter(&logger)
	res, err := r.SyncStatus(src, trg, status.CompareOptions{})
	if err != nil {
		return err
	}
	fmt.Println(status.FormatResult(res))
*/
package status
