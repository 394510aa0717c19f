// Package formdata reads and annotates the controls of an edited document
// the way a browser form submission would see them.
//
// Collect returns the successful controls in document order, so the posted
// values of a row collection follow the visible row order:
//
//	values := formdata.Collect(tree, form)
//	body := formdata.Encode(formdata.Merge(values, formdata.CSRFToken("_csrf", token)))
//
// MapErrors and ApplyErrors route server validation payloads back onto the
// indexed fields of the rows.
package formdata
