/*
Package ports defines the driven ports (interfaces) of the taskgate flow.

These interfaces decouple the flow controller from the collaborators around it,
allowing the gate to commit items to any list, report failures on any medium and
coordinate attempts across processes.

# Key Interfaces

  - ItemList: the list accepted items are appended to (the commit collaborator).
  - Notifier: reports a rejection reason to the user (the notify-failure collaborator).
  - DistributedLocker: guards against two attempts running at once across replicas.
*/
package ports
