// Copyright © 2018 The ELPS authors

package lisp_test

import (
	"testing"

	"github.com/luthersystems/schemer/schemetest"
)

func BenchmarkFact(b *testing.B) {
	schemetest.RunBenchmark(b, `
		(define (fact n)
		  (if (= n 0)
		      1
		      (* n (fact (- n 1)))))
		(fact 20)`)
}

func BenchmarkFib(b *testing.B) {
	schemetest.RunBenchmark(b, `
		(define (fib n)
		  (if (< n 2)
		      n
		      (+ (fib (- n 1)) (fib (- n 2)))))
		(fib 15)`)
}

func BenchmarkClosures(b *testing.B) {
	schemetest.RunBenchmark(b, `
		(define (make-counter)
		  (let ((n 0))
		    (lambda () (set! n (+ n 1)) n)))
		(define c (make-counter))
		(define (repeat k f) (if (= k 0) (f) (begin (f) (repeat (- k 1) f))))
		(repeat 200 c)`)
}
