/*
Package sequence detects numbered frame sequences on disk.

	tex.1001.png  ┐
	tex.1002.png  ├─ pattern "tex." + extension "png"
	tex.1003.png  ┘
	tex.tx        ─ not a member (no trailing frame digits)

🎯 Purpose:
- Derive the shared name pattern of a frame file
- Answer "does this file have siblings?" without listing everything
- Enumerate all members in frame order
- Warn when frames are missing

📝 Rules:
- The frame number sits right before the extension
- Trailing '#' characters count as frame placeholders
- Pattern and extension compare case-insensitively
- Two files are enough to make a sequence, even with gaps

🔍 Example:

	r := sequence.NewResolver(&logger)
	files, err := r.Files("/shots/sq010/tex.1001.png")
	if err != nil {
		var ferr *sequence.FrameError
		if errors.As(err, &ferr) {
			// malformed member name
		}
	}
*/
package sequence
