// Package expectorate compares multi-line output to data stored in version controlled files, and makes it easy to update those files when the output should change.
//
// Use it like this:
//
//	func TestCompose(t *testing.T) {
//		expectorate.AssertContents(t, "testdata/lyrics.txt", compose())
//	}
//
// If the output doesn't match, the test fails and a color-coded unified diff is printed. To accept the new output, run with EXPECTORATE=overwrite:
//
//	EXPECTORATE=overwrite go test ./...
//
// Assuming testdata/lyrics.txt is checked in, git diff then shows exactly what changed.
//
// Behavior:
//   - "\r\n" and "\r" are normalized to "\n" in both the actual value and the reference file before comparing.
//   - A reference file that does not exist compares as empty. Overwrite mode creates it (unless Config.NoCreate).
//   - Overwrite mode writes through a temporary file and a rename, and skips the write entirely when the file already holds the actual value. Repeated runs
//     never change the file's modification time.
//   - Only the exact value "overwrite" enables overwrite mode. Any other value of EXPECTORATE is check mode.
//
// Concurrent overwrites of the same file from several processes are not coordinated. Readers always see a whole file, but the last rename wins.
//
// Compare is the engine underneath AssertContents and FilePredicate; call it directly to inject a Config without touching the environment.
package expectorate
