// Package testutil provides compact builders for declaration trees used
// across the test suites. Nodes carry small hand-assigned IDs so test
// expectations stay readable.
//
// A unit is assembled inline:
//
//	unit := testutil.Unit("demo", testutil.Root(
//	    testutil.Struct(1, "Client"),
//	    testutil.Module(2, "inner", decl.VisPublic,
//	        testutil.Trait(3, "Reader",
//	            testutil.Method(4, "read"),
//	        ),
//	        testutil.TraitImpl(5,
//	            testutil.Ref(testutil.Def(3), "Reader"),
//	            testutil.Ref(testutil.Def(1), "Client"),
//	        ),
//	    ),
//	))
//
// Builders default to public visibility. Wrap an item in Private to
// demote it, or in Doc to attach documentation text.
package testutil
