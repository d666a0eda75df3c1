/**
 * Copyright 2016 l0vest0rm.hllmap authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License"): you may
 * not use this file except in compliance with the License. You may obtain
 * a copy of the License at
 *
 *     http: *www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
 * WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
 * License for the specific language governing permissions and limitations
 * under the License.
 */

// hllmapctl feeds a stream of "key,coupon" observations through an HllMap
// and reports per-key HIP estimates. It replaces the teacher's single-sketch
// example/main.go with a demo of the keyed map this repository builds.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/l0vest0rm/hllmap"
	"github.com/spf13/cobra"
)

func main() {
	var keySize int
	var k int

	rootCmd := &cobra.Command{
		Use:   "hllmapctl [observations.csv]",
		Short: "Feed key,coupon observations through an HllMap and report estimates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], keySize, k)
		},
	}
	rootCmd.Flags().IntVar(&keySize, "key-size", 4, "fixed key length in bytes")
	rootCmd.Flags().IntVar(&k, "k", 1024, "registers per sketch (power of two)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path string, keySize, k int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	m, err := hllmap.New(uint32(keySize), uint32(k))
	if err != nil {
		return fmt.Errorf("hllmap.New: %w", err)
	}

	order := make([]string, 0)
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		keyStr, couponStr, ok := strings.Cut(line, ",")
		if !ok {
			return fmt.Errorf("line %d: expected \"key,coupon\", got %q", lineNo, line)
		}

		key := []byte(keyStr)
		if len(key) > keySize {
			key = key[:keySize]
		} else if len(key) < keySize {
			padded := make([]byte, keySize)
			copy(padded, key)
			key = padded
		}

		coupon, err := strconv.ParseUint(strings.TrimSpace(couponStr), 0, 32)
		if err != nil {
			return fmt.Errorf("line %d: bad coupon %q: %w", lineNo, couponStr, err)
		}

		if _, err := m.Update(key, uint32(coupon)); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}

		if !seen[keyStr] {
			seen[keyStr] = true
			order = append(order, keyStr)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	fmt.Printf("table=%d capacity=%d count=%d\n", m.TableEntries(), m.CapacityEntries(), m.CurrentCountEntries())
	for _, keyStr := range order {
		key := []byte(keyStr)
		if len(key) > keySize {
			key = key[:keySize]
		} else if len(key) < keySize {
			padded := make([]byte, keySize)
			copy(padded, key)
			key = padded
		}
		est := m.Estimate(key)
		fmt.Printf("%-20s estimate=%.2f lower=%.2f upper=%.2f\n", keyStr, est, m.LowerBound(key), m.UpperBound(key))
	}
	return nil
}
