// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package analyze

// AnalyzeMonitor provides hooks to observe a match request.
// TopicMatched and TopicRejected are called from pool workers in no particular order.
type AnalyzeMonitor interface {
	Start(text string, topics []string)
	TopicMatched(index int, topic string)
	TopicRejected(index int, topic string)
	Finish(matched []string, err error)
}

// noopMonitor is a no-op implementation of AnalyzeMonitor
type noopMonitor struct{}

var _ AnalyzeMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ []string)    {}
func (n *noopMonitor) TopicMatched(_ int, _ string)  {}
func (n *noopMonitor) TopicRejected(_ int, _ string) {}
func (n *noopMonitor) Finish(_ []string, _ error)    {}
