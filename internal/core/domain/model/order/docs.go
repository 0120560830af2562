// Package order provides the work order aggregate: the current-state projection of
// an engine or part being serviced in the workshop.
//
// An order is opened in the INGRESO stage and is only ever mutated by the stage
// workflow, which moves it between stage.State values and stamps the warranty
// window when the order is delivered.
package order
