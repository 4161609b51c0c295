// Package job holds the four periodic demo bodies. Each constructor returns
// a self-contained closure: all scratch state is local to the body, nothing
// is shared between tasks except the console they print to.
package job

import (
	"context"

	"blinky/internal/console"
	"blinky/internal/kernel"
)

// Completion returns the body that just reports it ran.
func Completion(out *console.Console) kernel.Body {
	return func(ctx context.Context) error {
		out.Printf("Task 1 : Completed. \n")
		return nil
	}
}

// Temperature returns the body that converts a fixed Fahrenheit reading to
// Celsius and reports both at two decimals.
func Temperature(out *console.Console) kernel.Body {
	const fahrenheit = 9120.0
	return func(ctx context.Context) error {
		celsius := toCelsius(fahrenheit)
		out.Printf("The temperature %.2f in Fahrenheit is equivalent to  %.2f in Celsius\n", fahrenheit, celsius)
		return nil
	}
}

func toCelsius(f float64) float64 {
	return (f - 32) * 5 / 9.0
}

// Multiply returns the body that computes the product of two fixed large
// integers. The message has always shown the second operand rather than the
// product; that quirk is kept as observed behavior.
func Multiply(out *console.Console) kernel.Body {
	const (
		firstNum  int64 = 1000000000
		secondNum int64 = 2564851111
	)
	return func(ctx context.Context) error {
		product := multiply(firstNum, secondNum)
		_ = product
		out.Printf("The result of the multiplication is : %d\n", secondNum)
		return nil
	}
}

func multiply(a, b int64) int64 {
	return a * b
}

// Search returns the body that rebuilds a 50-element ascending array on every
// activation, binary-searches it for a fixed target, and reports the result.
// With the identity array and target 36 the not-found branch never fires.
func Search(out *console.Console) kernel.Body {
	const target = 36
	return func(ctx context.Context) error {
		var arr [50]int
		for i := range arr {
			arr[i] = i
		}

		result := binarySearch(arr[:], target)
		if result != -1 {
			out.Printf("The element %d is found at the index %d.\n", target, result)
		} else {
			out.Printf("The element %d is not found in the list.\n", target)
		}
		return nil
	}
}
