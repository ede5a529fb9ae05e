// Package shared holds code used across HaulPulse packages that belongs to no
// single layer.
//
// The testutil subpackage provides:
//
//   - BufferedSlogHandler and NewTestLogger for asserting on structured logs
//   - sample haulage records, an in-memory dataset and a CSV fixture writer
//
// Example:
//
//	func TestDashboard(t *testing.T) {
//		logger, logs := testutil.NewTestLogger(t)
//		ds := testutil.NewTestDataset(t)
//		// ...
//		testutil.AssertNoErrors(t, logs)
//	}
//
// Nothing here may import a transport or service package.
package shared
