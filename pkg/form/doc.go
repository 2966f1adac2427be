// Package form holds the per-request form state: the raw strings a front end
// submitted, the typed values they coerce to and the per-field errors. A
// fresh State is built for every request or terminal session and passed
// explicitly through rendering, record assembly and prediction.
package form
