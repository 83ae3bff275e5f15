// Package xmlrec is a record-oriented data access layer over a single XML
// document.
//
// A document holds records directly under its root element, in one of two
// layouts:
//
//	<!-- AttributeStyle: fields are attributes, optional text/CDATA payload -->
//	<accounts>
//	  <account id="1" email="a@example.com"><![CDATA[Admin account]]></account>
//	</accounts>
//
//	<!-- ElementStyle: fields are child elements of a wrapper -->
//	<users>
//	  <user><id>1</id><email>a@example.com</email></user>
//	</users>
//
// The layout is detected once at [Open] by sampling the first record and can
// be recomputed with [Document.Reclassify].
//
// Selecting returns an immutable [Selection]; extracting returns a [Result]
// that is flattened by cardinality (one matched node yields a single
// [Record], several yield a slice). Every mutation rewrites the whole file.
//
//	doc, err := xmlrec.Open("accounts.xml", xmlrec.Options{})
//	if err != nil {
//	    return err
//	}
//
//	sel := doc.SelectByAttribute("email", "a@example.com")
//	rec, ok := doc.Fetch(sel).Record()
//
//	err = doc.ChangeData(sel, xmlrec.Set("email", "b@example.com"))
//
// All comparisons are byte-wise string comparisons, including
// [Document.HighestValue] and [SortBy]: "9" sorts after "10".
//
// A [Document] is not safe for concurrent use.
package xmlrec
