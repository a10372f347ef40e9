/*
Package status tracks per-file pipeline state and progress for ocrrc.

	            +-------------+
	            |   Status    |
	            | (Tracking)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   Files   |           |  Logs   |
	| (States)  |           | (UI/UX) |
	+-----------+           +---------+

🎯 Purpose:
- Tracks corpus files through analyze and correct runs
- Records per-file era, match counts, and checksums
- Provides user-friendly status reporting
- Keeps counts for end-of-run summaries

🔄 Flow:
1. Runner discovers corpus files and tracks them as pending
2. Workers flip files through analyzing/correcting states
3. Terminal states record match counts or errors
4. Status output renders the tracked table

🤝 Interfaces:
- StatusReporter: Reports status changes
- FileFormatter: Formats status messages

📝 Design Philosophy:
The status package owns presentation of pipeline state and nothing
else. File contents never pass through here; pkg/corpus reads and
writes pages, this package only remembers what happened to them.
*/
package status
