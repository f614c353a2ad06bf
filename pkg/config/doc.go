/*
Package config loads the seqsync configuration file.

🎯 Purpose:
- Name the directory that receives daily log files
- Provide copy defaults (ignore globs, parallelism, failure policy)

📝 Formats:
The parser is picked by file extension: .json, .yaml/.yml, .hcl or .toml.
Unknown keys are rejected in every format.

	{"logger_dir_name": "vfxsync", "copy": {"parallel": 4, "ignore": ["*.tmp"]}}

	logger_dir_name = "vfxsync"
	copy {
	  parallel = 4
	  ignore   = ["*.tmp"]
	}

🔍 Lookup:
An explicit path wins. Otherwise seqsync/config.<ext> is searched in the
XDG config directories. Without a file the defaults apply and logs go to
~/.seqsync.
*/
package config
